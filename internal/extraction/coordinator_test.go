package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/application/domain"
)

func TestCoordinatorClassifierOverridesPatterns(t *testing.T) {
	service := &fakeClassifierService{
		response: `{"is_job_related": true, "company": "Globex", "role": "Staff Engineer", "status": "interview_scheduled", "platform": "LinkedIn", "confidence": 0.9}`,
	}
	coordinator := NewCoordinator(NewExtractor(), NewClassifierAdapter(service))

	msg := testMessage("Acme Corp <jobs@acme.com>", "Your application for Software Engineer at Acme.", "Thank you for applying.")
	fact := coordinator.Extract(context.Background(), msg)

	assert.Equal(t, "Globex", fact.Company)
	assert.Equal(t, "Staff Engineer", fact.Role)
	assert.Equal(t, domain.StatusInterview, fact.Status)
	assert.Equal(t, "LinkedIn", fact.Platform)
	require.NotNil(t, fact.Confidence)
	assert.Equal(t, 0.9, *fact.Confidence)
	require.NotNil(t, fact.IsJobRelated)
	assert.True(t, *fact.IsJobRelated)
}

func TestCoordinatorKeepsPatternFieldsWhenFragmentOmitsThem(t *testing.T) {
	service := &fakeClassifierService{
		response: `{"is_job_related": true, "company": "Globex", "role": "", "status": "", "platform": "", "confidence": 0.8}`,
	}
	coordinator := NewCoordinator(NewExtractor(), NewClassifierAdapter(service))

	msg := testMessage("", "Your application for Staff Engineer at Acme.", "Thank you for applying via linkedin.com")
	fact := coordinator.Extract(context.Background(), msg)

	assert.Equal(t, "Globex", fact.Company)
	assert.Equal(t, "Staff Engineer", fact.Role)
	assert.Equal(t, domain.StatusApplied, fact.Status)
	assert.Equal(t, "LinkedIn", fact.Platform)
}

func TestCoordinatorPatternOnlyWhenClassifierDegrades(t *testing.T) {
	coordinator := NewCoordinator(NewExtractor(), NewClassifierAdapter(nil))

	msg := testMessage("Acme Corp <jobs@acme.com>", "Interview for the Backend Developer role", "Are you available for a phone screen?")
	fact := coordinator.Extract(context.Background(), msg)

	assert.Equal(t, "Acme Corp", fact.Company)
	assert.Equal(t, "Backend Developer", fact.Role)
	assert.Equal(t, domain.StatusInterview, fact.Status)
	assert.Nil(t, fact.Confidence)
	assert.Nil(t, fact.IsJobRelated)
}

func TestCoordinatorProvenanceIsFixed(t *testing.T) {
	// Source link and last response date always come from the message itself,
	// no matter what the classifier claims
	service := &fakeClassifierService{
		response: `{"is_job_related": true, "company": "Acme", "confidence": 0.9}`,
	}
	coordinator := NewCoordinator(NewExtractor(), NewClassifierAdapter(service))

	msg := testMessage("Acme <jobs@acme.com>", "Update", "details")
	fact := coordinator.Extract(context.Background(), msg)

	assert.Equal(t, msg.Link, fact.SourceLink)
	assert.Equal(t, msg.ReceivedAt, fact.LastResponseDate)
}
