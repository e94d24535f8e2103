// Package records defines the artifacts exchanged between the
// pipeline stages: CSV rows out of the collector, canonical JSON out
// of the normalizer and enriched JSON out of the override merger.
package records

// RawRecord is one row of the collector's CSV artifact.
type RawRecord struct {
	MepId   string
	Name    string
	Country string
	Email   string
	Group   string
	Party   string
	XUrl    string
}

// CsvHeader is the column order of the collector artifact.
var CsvHeader = []string{"mep_id", "name", "country", "email", "group", "party", "x_url"}

func (r RawRecord) CsvRow() []string {
	return []string{r.MepId, r.Name, r.Country, r.Email, r.Group, r.Party, r.XUrl}
}

func RawFromCsvRow(row []string) RawRecord {
	get := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return RawRecord{
		MepId:   get(0),
		Name:    get(1),
		Country: get(2),
		Email:   get(3),
		Group:   get(4),
		Party:   get(5),
		XUrl:    get(6),
	}
}

// CanonicalRecord is one entry of the normalizer's JSON artifact.
// Country keeps the raw scraped value so unmapped countries survive
// normalization; CountryIso is empty in that case.
type CanonicalRecord struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Country    string `json:"country"`
	CountryIso string `json:"countryIso"`
	Group      string `json:"group"`
	Party      string `json:"party"`
	UsesX      bool   `json:"usesX"`
	XHandle    string `json:"xHandle,omitempty"`
}

// AccountStatus is the curated judgement of whether an X account is
// still in use.
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusInactive AccountStatus = "inactive"
	StatusUnknown  AccountStatus = "unknown"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusUnknown:
		return true
	}
	return false
}

// Override is one hand-maintained correction, keyed by canonical id
// in the overrides file. pointer fields distinguish "absent" from
// "present but empty": absent fields leave the canonical value alone.
type Override struct {
	XHandle    *string        `json:"xHandle,omitempty"`
	Status     *AccountStatus `json:"status,omitempty"`
	ArchiveUrl *string        `json:"archiveUrl,omitempty"`
	Note       *string        `json:"note,omitempty"`
	UpdatedAt  *string        `json:"updatedAt,omitempty"`
}

// EnrichedRecord is the final artifact: canonical fields with any
// override fields applied on top.
type EnrichedRecord struct {
	CanonicalRecord
	Status     AccountStatus `json:"status,omitempty"`
	ArchiveUrl string        `json:"archiveUrl,omitempty"`
	Note       string        `json:"note,omitempty"`
	UpdatedAt  string        `json:"updatedAt,omitempty"`
}
