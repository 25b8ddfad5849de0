package domain

import "time"

// Status is the lifecycle stage of a job application.
// Free text never ends up here: everything that classifies or extracts a
// status must map it onto one of these values first.
type Status string

const (
	StatusApplied       Status = "Applied"
	StatusInterview     Status = "Interview"
	StatusOffer         Status = "Offer"
	StatusOfferRejected Status = "OfferRejected"
	StatusRejected      Status = "Rejected"
)

// Default field sentinels used when extraction comes up empty.
const (
	CompanyUnknown   = "Unknown"
	RoleNotSpecified = "Not specified"
	PlatformDirect   = "Direct"
)

// ValidStatus reports whether s is one of the five known stages.
func ValidStatus(s Status) bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusOfferRejected, StatusRejected:
		return true
	}
	return false
}

// ParseStatus maps a free-text status string onto a Status value.
// Unrecognized input falls back to StatusApplied so the enum invariant holds
// no matter what the classifier returns.
func ParseStatus(raw string) Status {
	switch normalizeStatusKey(raw) {
	case "applied", "application", "applicationsubmitted":
		return StatusApplied
	case "interview", "interviewing", "interviewscheduled":
		return StatusInterview
	case "offer", "offered", "offerextended":
		return StatusOffer
	case "offerrejected", "offerdeclined", "declined":
		return StatusOfferRejected
	case "rejected", "rejection", "notselected":
		return StatusRejected
	}
	return StatusApplied
}

func normalizeStatusKey(raw string) string {
	key := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			key = append(key, r)
		case r >= 'A' && r <= 'Z':
			key = append(key, r+('a'-'A'))
		}
	}
	return string(key)
}

// Application is the persisted record for one tracked job application.
// Created on first reconciliation for a given identity key, mutated on every
// later reconciliation that matches the same key, never deleted here.
type Application struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	Company          string     `json:"company" gorm:"index:idx_company_role;not null"`
	Role             string     `json:"role" gorm:"index:idx_company_role;not null"`
	Status           Status     `json:"status" gorm:"not null"`
	Platform         string     `json:"platform"`
	ApplicationDate  *time.Time `json:"application_date,omitempty"` // set at creation, never overwritten
	LastResponseDate time.Time  `json:"last_response_date"`         // most recent email signal
	SourceLink       string     `json:"source_link" gorm:"index"`
	Confidence       *float64   `json:"confidence,omitempty"`     // only when the classifier contributed
	IsJobRelated     *bool      `json:"is_job_related,omitempty"` // nil when the classifier was not consulted
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
