package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldName identifies one column of the roster spreadsheet. The ledger and
// the diff logic work in terms of FieldName; the human-readable header text
// only appears at the parse boundary and in API responses (Column).
type FieldName string

const (
	FieldRegCode             FieldName = "reg_code"
	FieldFullName            FieldName = "name"
	FieldAgentAttorney       FieldName = "agent_attorney"
	FieldOrganization        FieldName = "organization"
	FieldAddressLine1        FieldName = "address_line_1"
	FieldAddressLine2        FieldName = "address_line_2"
	FieldCity                FieldName = "city"
	FieldState               FieldName = "state"
	FieldCountry             FieldName = "country"
	FieldZipcode             FieldName = "zipcode"
	FieldPhoneNumber         FieldName = "phone_number"
	FieldFaxNumber           FieldName = "fax_number"
	FieldEmail               FieldName = "email"
	FieldWebsite             FieldName = "website"
	FieldAgentLicenseDate    FieldName = "date_of_patent_agent_license"
	FieldAttorneyLicenseDate FieldName = "date_of_patent_attorney_license"
	FieldNotes               FieldName = "notes"
)

// columns maps each field to the spreadsheet header it is loaded from.
// The header text is the stable contract with the uploaded sheet; column
// order is irrelevant.
var columns = map[FieldName]string{
	FieldRegCode:             "Reg Code",
	FieldFullName:            "Name",
	FieldAgentAttorney:       "Attorney/Agent",
	FieldOrganization:        "Organization/Law Firm Name",
	FieldAddressLine1:        "Address Line 1",
	FieldAddressLine2:        "Address Line 2",
	FieldCity:                "City",
	FieldState:               "State",
	FieldCountry:             "Country",
	FieldZipcode:             "Zipcode",
	FieldPhoneNumber:         "Phone Number",
	FieldFaxNumber:           "Fax Number",
	FieldEmail:               "Email Address",
	FieldWebsite:             "Website",
	FieldAgentLicenseDate:    "Date of Patent Agent Licensed",
	FieldAttorneyLicenseDate: "Date of Patent Attorney Licensed",
	FieldNotes:               "Notes",
}

// Column returns the spreadsheet header for the field.
func (f FieldName) Column() string { return columns[f] }

// FieldForColumn resolves a spreadsheet header back to its FieldName.
func FieldForColumn(header string) (FieldName, bool) {
	h := strings.TrimSpace(header)
	for f, c := range columns {
		if c == h {
			return f, true
		}
	}
	return "", false
}

// DiffableFields lists every field compared between snapshots, in export
// column order. Reg Code is the match key and is never diffed against itself.
var DiffableFields = []FieldName{
	FieldFullName,
	FieldAgentAttorney,
	FieldOrganization,
	FieldAddressLine1,
	FieldAddressLine2,
	FieldCity,
	FieldState,
	FieldCountry,
	FieldZipcode,
	FieldPhoneNumber,
	FieldFaxNumber,
	FieldEmail,
	FieldWebsite,
	FieldAgentLicenseDate,
	FieldAttorneyLicenseDate,
	FieldNotes,
}

// NA is the normalized placeholder for absent or unparseable values.
const NA = "NA"

// CanonicalRegCode is the one normalization applied to registration numbers
// everywhere: write path, diff matching, and lookups.
func CanonicalRegCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Profile is one attorney/agent record of the current or previous snapshot.
// Records are replaced wholesale on each ingestion; the live-sheet endpoint
// may edit individual fields in between.
type Profile struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RegCode             string             `bson:"reg_code" json:"regCode"`
	Name                string             `bson:"name" json:"name"`
	AgentAttorney       string             `bson:"agent_attorney" json:"agentAttorney"`
	Organization        string             `bson:"organization" json:"organization"`
	AddressLine1        string             `bson:"address_line_1" json:"addressLine1"`
	AddressLine2        string             `bson:"address_line_2" json:"addressLine2"`
	City                string             `bson:"city" json:"city"`
	State               string             `bson:"state" json:"state"`
	Country             string             `bson:"country" json:"country"`
	Zipcode             string             `bson:"zipcode" json:"zipcode"`
	PhoneNumber         string             `bson:"phone_number" json:"phoneNumber"`
	FaxNumber           string             `bson:"fax_number" json:"faxNumber"`
	Email               string             `bson:"email" json:"email"`
	Website             string             `bson:"website" json:"website"`
	AgentLicenseDate    string             `bson:"date_of_patent_agent_license" json:"dateOfPatentAgentLicense"`
	AttorneyLicenseDate string             `bson:"date_of_patent_attorney_license" json:"dateOfPatentAttorneyLicense"`
	Notes               string             `bson:"notes" json:"notes"`
}

// Field returns the value of the named field.
func (p *Profile) Field(f FieldName) string {
	switch f {
	case FieldRegCode:
		return p.RegCode
	case FieldFullName:
		return p.Name
	case FieldAgentAttorney:
		return p.AgentAttorney
	case FieldOrganization:
		return p.Organization
	case FieldAddressLine1:
		return p.AddressLine1
	case FieldAddressLine2:
		return p.AddressLine2
	case FieldCity:
		return p.City
	case FieldState:
		return p.State
	case FieldCountry:
		return p.Country
	case FieldZipcode:
		return p.Zipcode
	case FieldPhoneNumber:
		return p.PhoneNumber
	case FieldFaxNumber:
		return p.FaxNumber
	case FieldEmail:
		return p.Email
	case FieldWebsite:
		return p.Website
	case FieldAgentLicenseDate:
		return p.AgentLicenseDate
	case FieldAttorneyLicenseDate:
		return p.AttorneyLicenseDate
	case FieldNotes:
		return p.Notes
	}
	return ""
}

// SetField assigns the value of the named field.
func (p *Profile) SetField(f FieldName, v string) {
	switch f {
	case FieldRegCode:
		p.RegCode = CanonicalRegCode(v)
	case FieldFullName:
		p.Name = v
	case FieldAgentAttorney:
		p.AgentAttorney = v
	case FieldOrganization:
		p.Organization = v
	case FieldAddressLine1:
		p.AddressLine1 = v
	case FieldAddressLine2:
		p.AddressLine2 = v
	case FieldCity:
		p.City = v
	case FieldState:
		p.State = v
	case FieldCountry:
		p.Country = v
	case FieldZipcode:
		p.Zipcode = v
	case FieldPhoneNumber:
		p.PhoneNumber = v
	case FieldFaxNumber:
		p.FaxNumber = v
	case FieldEmail:
		p.Email = v
	case FieldWebsite:
		p.Website = v
	case FieldAgentLicenseDate:
		p.AgentLicenseDate = v
	case FieldAttorneyLicenseDate:
		p.AttorneyLicenseDate = v
	case FieldNotes:
		p.Notes = v
	}
}

// Details flattens the profile into a Column-keyed map, the shape stored in
// added/removed change records and returned by the ledger read endpoints.
func (p *Profile) Details() map[string]string {
	m := make(map[string]string, len(DiffableFields)+1)
	m[FieldRegCode.Column()] = p.RegCode
	for _, f := range DiffableFields {
		m[f.Column()] = p.Field(f)
	}
	return m
}
