package domain

import "time"

// ApplicationFact is the canonical, fully-defaulted result of extracting one
// email. Every field always has a value: unextractable fields carry the
// documented sentinels, never empty strings.
type ApplicationFact struct {
	Company          string     `json:"company"`
	Role             string     `json:"role"`
	Status           Status     `json:"status"`
	Platform         string     `json:"platform"`
	ApplicationDate  *time.Time `json:"application_date,omitempty"`
	LastResponseDate time.Time  `json:"last_response_date"`
	SourceLink       string     `json:"source_link"`
	Confidence       *float64   `json:"confidence,omitempty"`
	IsJobRelated     *bool      `json:"is_job_related,omitempty"` // nil = classifier not consulted or unavailable
}

// HasClassifierEvidence reports whether the fact carries a passed-gate
// classifier fragment. The reconciler uses this to decide whether a default
// sentinel may overwrite a previously known value.
func (f *ApplicationFact) HasClassifierEvidence() bool {
	return f.Confidence != nil
}

// IdentityKey is what reconciliation matches an incoming fact against
// existing applications with: company+role (case- and substring-insensitive)
// primary, source link exact-match fallback.
type IdentityKey struct {
	Company    string
	Role       string
	SourceLink string
}

// HasCompanyRole reports whether the primary company+role match is usable,
// i.e. both parts are non-empty and not the extraction defaults.
func (k IdentityKey) HasCompanyRole() bool {
	return k.Company != "" && k.Company != CompanyUnknown &&
		k.Role != "" && k.Role != RoleNotSpecified
}

// Identity derives the lookup key for a fact.
func (f *ApplicationFact) Identity() IdentityKey {
	return IdentityKey{
		Company:    f.Company,
		Role:       f.Role,
		SourceLink: f.SourceLink,
	}
}
