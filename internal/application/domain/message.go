package domain

import (
	"errors"
	"time"
)

// ErrMalformedMessage marks an email that is missing its mandatory identity
// fields. Fatal for that single item only; batch siblings are unaffected.
var ErrMalformedMessage = errors.New("malformed email message")

// EmailMessage is one raw email as the ingestion boundary hands it over.
// Immutable once fetched; the pipeline only reads it.
type EmailMessage struct {
	ID         string    `json:"id"`
	From       string    `json:"from"` // full header, usually "Name <addr>"
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
	Link       string    `json:"link"` // back-reference to the original message
}

// Validate checks the mandatory identity fields.
func (m *EmailMessage) Validate() error {
	if m == nil || m.ID == "" {
		return ErrMalformedMessage
	}
	if m.ReceivedAt.IsZero() {
		return ErrMalformedMessage
	}
	return nil
}
