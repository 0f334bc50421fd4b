package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"roster-data/internal/domain"
	"roster-data/internal/repository"

	"go.uber.org/zap"
)

// Change categories reported by the insights bundle.
const (
	CategoryName         = "name"
	CategoryOrganization = "organization"
	CategoryAddress      = "address"
	CategoryPhone        = "phone"
	CategoryStatus       = "status"
)

var addressFields = map[domain.FieldName]bool{
	domain.FieldAddressLine1: true,
	domain.FieldAddressLine2: true,
	domain.FieldCity:         true,
	domain.FieldState:        true,
	domain.FieldCountry:      true,
	domain.FieldZipcode:      true,
}

var phoneFields = map[domain.FieldName]bool{
	domain.FieldPhoneNumber: true,
	domain.FieldFaxNumber:   true,
}

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type OrgCount struct {
	Organization string `json:"organization"`
	Count        int    `json:"count"`
}

type CompanyLeaver struct {
	RegCode         string `json:"regCode"`
	Name            string `json:"name"`
	OldOrganization string `json:"oldOrganization"`
	NewOrganization string `json:"newOrganization"`
	NameChanged     bool   `json:"nameChanged"`
}

type StatusChangeItem struct {
	RegCode string `json:"regCode"`
	Name    string `json:"name"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Insights is the aggregation bundle behind the dashboard.
type Insights struct {
	TotalAdded       int                `json:"totalAdded"`
	TotalRemoved     int                `json:"totalRemoved"`
	TotalUpdated     int                `json:"totalUpdated"`
	Categories       map[string]int     `json:"categories"`
	ByState          []StateCount       `json:"byState"`
	TopOrganizations []OrgCount         `json:"topOrganizations"`
	CompanyLeavers   []CompanyLeaver    `json:"companyLeavers"`
	StatusChanges    []StatusChangeItem `json:"statusChanges"`
}

type InsightsService interface {
	// GetInsights computes the bundle; company optionally narrows the
	// leavers list to people whose organization changed away from it.
	GetInsights(ctx context.Context, company string) (*Insights, error)
}

type insightsService struct {
	ledger      repository.LedgerRepo
	profiles    repository.ProfilesRepo
	transitions []domain.StatusTransition
	logger      *zap.Logger
}

// NewInsightsService builds the insights aggregator. transitions may be nil,
// which selects the default status-change rules.
func NewInsightsService(ledger repository.LedgerRepo, profiles repository.ProfilesRepo, transitions []domain.StatusTransition, logger *zap.Logger) InsightsService {
	if transitions == nil {
		transitions = domain.DefaultStatusTransitions
	}
	return &insightsService{
		ledger:      ledger,
		profiles:    profiles,
		transitions: transitions,
		logger:      logger,
	}
}

func (s *insightsService) GetInsights(ctx context.Context, company string) (*Insights, error) {
	updated, err := s.ledger.ListUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("load updated ledger: %w", err)
	}
	added, err := s.ledger.ListAdded(ctx)
	if err != nil {
		return nil, fmt.Errorf("load added ledger: %w", err)
	}
	removed, err := s.ledger.ListRemoved(ctx)
	if err != nil {
		return nil, fmt.Errorf("load removed ledger: %w", err)
	}

	// current snapshot, for state/organization of profiles whose changed
	// fields don't include them
	current, err := s.profiles.AllCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current snapshot: %w", err)
	}
	byCode := make(map[string]*domain.Profile, len(current))
	for _, p := range current {
		byCode[p.RegCode] = p
	}

	out := &Insights{
		TotalAdded:   len(added),
		TotalRemoved: len(removed),
		TotalUpdated: len(updated),
		Categories: map[string]int{
			CategoryName:         0,
			CategoryOrganization: 0,
			CategoryAddress:      0,
			CategoryPhone:        0,
			CategoryStatus:       0,
		},
	}

	stateCounts := map[string]int{}
	orgCounts := map[string]int{}

	for _, u := range updated {
		for field, change := range u.Changes {
			switch {
			case field == domain.FieldFullName:
				out.Categories[CategoryName]++
			case field == domain.FieldOrganization:
				out.Categories[CategoryOrganization]++
			case addressFields[field]:
				out.Categories[CategoryAddress]++
			case phoneFields[field]:
				out.Categories[CategoryPhone]++
			case field == domain.FieldAgentAttorney:
				if s.matchTransition(change.OldValue, change.NewValue) {
					out.Categories[CategoryStatus]++
					out.StatusChanges = append(out.StatusChanges, StatusChangeItem{
						RegCode: u.RegCode,
						Name:    u.Name,
						From:    change.OldValue,
						To:      change.NewValue,
					})
				}
			}
		}

		if state := profileState(u, byCode); state != "" {
			stateCounts[state]++
		}
		if org := profileOrg(u, byCode); org != "" {
			orgCounts[org]++
		}

		if orgChange, ok := u.Changes[domain.FieldOrganization]; ok {
			if company == "" || strings.EqualFold(strings.TrimSpace(orgChange.OldValue), strings.TrimSpace(company)) {
				_, nameChanged := u.Changes[domain.FieldFullName]
				out.CompanyLeavers = append(out.CompanyLeavers, CompanyLeaver{
					RegCode:         u.RegCode,
					Name:            u.Name,
					OldOrganization: orgChange.OldValue,
					NewOrganization: orgChange.NewValue,
					NameChanged:     nameChanged,
				})
			}
		}
	}

	for state, count := range stateCounts {
		out.ByState = append(out.ByState, StateCount{State: state, Count: count})
	}
	sort.Slice(out.ByState, func(i, j int) bool { return out.ByState[i].State < out.ByState[j].State })

	for org, count := range orgCounts {
		out.TopOrganizations = append(out.TopOrganizations, OrgCount{Organization: org, Count: count})
	}
	sort.Slice(out.TopOrganizations, func(i, j int) bool {
		if out.TopOrganizations[i].Count != out.TopOrganizations[j].Count {
			return out.TopOrganizations[i].Count > out.TopOrganizations[j].Count
		}
		return out.TopOrganizations[i].Organization < out.TopOrganizations[j].Organization
	})
	if len(out.TopOrganizations) > 10 {
		out.TopOrganizations = out.TopOrganizations[:10]
	}

	sort.Slice(out.CompanyLeavers, func(i, j int) bool { return out.CompanyLeavers[i].RegCode < out.CompanyLeavers[j].RegCode })
	sort.Slice(out.StatusChanges, func(i, j int) bool { return out.StatusChanges[i].RegCode < out.StatusChanges[j].RegCode })

	return out, nil
}

func (s *insightsService) matchTransition(from, to string) bool {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	for _, t := range s.transitions {
		if from == t.From && to == t.To {
			return true
		}
	}
	return false
}

// profileState: new value when the state changed in this update, otherwise
// the current snapshot's value.
func profileState(u *domain.UpdatedProfile, byCode map[string]*domain.Profile) string {
	if c, ok := u.Changes[domain.FieldState]; ok {
		return cleanValue(c.NewValue)
	}
	if p, ok := byCode[u.RegCode]; ok {
		return cleanValue(p.State)
	}
	return ""
}

func profileOrg(u *domain.UpdatedProfile, byCode map[string]*domain.Profile) string {
	if c, ok := u.Changes[domain.FieldOrganization]; ok {
		return cleanValue(c.NewValue)
	}
	if p, ok := byCode[u.RegCode]; ok {
		return cleanValue(p.Organization)
	}
	return ""
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if v == domain.NA {
		return ""
	}
	return v
}
