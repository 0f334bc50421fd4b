package service

import (
	"context"
	"strings"
	"unicode"

	"roster-data/internal/domain"
	"roster-data/internal/repository"
)

// SearchLimit caps every search and suggestion result set.
const SearchLimit = 20

// searchableFields maps the ?field= parameter to a profile field.
var searchableFields = map[string]domain.FieldName{
	"regCode":       domain.FieldRegCode,
	"name":          domain.FieldFullName,
	"organization":  domain.FieldOrganization,
	"city":          domain.FieldCity,
	"state":         domain.FieldState,
	"zipcode":       domain.FieldZipcode,
	"phoneNumber":   domain.FieldPhoneNumber,
	"email":         domain.FieldEmail,
	"agentAttorney": domain.FieldAgentAttorney,
}

// SearchService classifies free-text queries and matches them against the
// current snapshot. No ranking beyond natural document order.
type SearchService struct {
	profiles repository.ProfilesRepo
}

func NewSearchService(profiles repository.ProfilesRepo) *SearchService {
	return &SearchService{profiles: profiles}
}

// Search runs a field-directed search when field names one of the searchable
// fields, otherwise classifies the query: numeric of length 5-6 is a probable
// registration number or zipcode, longer numerics a probable phone number or
// zipcode, and alphabetic text matches name, organization, city, address, or
// attorney type.
func (s *SearchService) Search(ctx context.Context, query, field string) ([]*domain.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if f, ok := searchableFields[field]; ok {
		return s.profiles.Search(ctx, []repository.FieldMatch{{Field: f, Text: query}}, SearchLimit)
	}

	return s.profiles.Search(ctx, classify(query), SearchLimit)
}

// Suggestions is the typeahead variant: same classification, plus the literal
// tokens "attorney" and "agent" match the attorney-type field exactly.
func (s *SearchService) Suggestions(ctx context.Context, query string) ([]*domain.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	lower := strings.ToLower(query)
	if lower == "attorney" || lower == "agent" {
		return s.profiles.Search(ctx, []repository.FieldMatch{
			{Field: domain.FieldAgentAttorney, Text: query, Exact: true},
		}, SearchLimit)
	}

	return s.profiles.Search(ctx, classify(query), SearchLimit)
}

func classify(query string) []repository.FieldMatch {
	if isNumeric(query) {
		switch {
		case len(query) >= 5 && len(query) <= 6:
			return []repository.FieldMatch{
				{Field: domain.FieldRegCode, Text: query, Prefix: true},
				{Field: domain.FieldZipcode, Text: query, Prefix: true},
			}
		case len(query) > 6:
			return []repository.FieldMatch{
				{Field: domain.FieldPhoneNumber, Text: query},
				{Field: domain.FieldZipcode, Text: query},
			}
		default:
			// short numerics are still most plausibly partial reg codes
			return []repository.FieldMatch{
				{Field: domain.FieldRegCode, Text: query, Prefix: true},
			}
		}
	}

	return []repository.FieldMatch{
		{Field: domain.FieldFullName, Text: query, Prefix: true},
		{Field: domain.FieldOrganization, Text: query},
		{Field: domain.FieldCity, Text: query},
		{Field: domain.FieldAddressLine1, Text: query},
		{Field: domain.FieldAgentAttorney, Text: query},
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
