package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifierService returns a canned provider response.
type fakeClassifierService struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClassifierService) Classify(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func classifyWith(t *testing.T, response string, err error) *Fragment {
	t.Helper()
	adapter := NewClassifierAdapter(&fakeClassifierService{response: response, err: err})
	msg := testMessage("Acme <jobs@acme.com>", "Your application", "body")
	base := NewExtractor().Extract(msg)
	return adapter.Classify(context.Background(), msg, base)
}

func TestClassifyAcceptsAboveGate(t *testing.T) {
	fragment := classifyWith(t, `{"is_job_related": true, "company": "Acme", "role": "Engineer", "status": "Interview", "platform": "LinkedIn", "confidence": 0.61}`, nil)

	require.NotNil(t, fragment)
	assert.True(t, fragment.IsJobRelated)
	assert.Equal(t, "Acme", fragment.Company)
	assert.Equal(t, 0.61, fragment.Confidence)
}

func TestClassifyRejectsAtGate(t *testing.T) {
	// The gate is strict: exactly 0.6 does not pass
	fragment := classifyWith(t, `{"is_job_related": true, "company": "Acme", "confidence": 0.6}`, nil)
	assert.Nil(t, fragment)

	fragment = classifyWith(t, `{"is_job_related": true, "company": "Acme", "confidence": 0.3}`, nil)
	assert.Nil(t, fragment)
}

func TestClassifyReturnsConfidentVeto(t *testing.T) {
	fragment := classifyWith(t, `{"is_job_related": false, "confidence": 0.9}`, nil)

	require.NotNil(t, fragment)
	assert.False(t, fragment.IsJobRelated)
	assert.Equal(t, 0.9, fragment.Confidence)
}

func TestClassifyExtractsJSONFromProse(t *testing.T) {
	response := "Sure! Here is the analysis:\n```json\n" +
		`{"is_job_related": true, "company": "Globex {Inc}", "role": "SRE", "status": "Offer", "platform": "", "confidence": 0.8}` +
		"\n```\nLet me know if you need anything else."
	fragment := classifyWith(t, response, nil)

	require.NotNil(t, fragment)
	assert.Equal(t, "Globex {Inc}", fragment.Company)
	assert.Equal(t, "Offer", fragment.Status)
}

func TestClassifyDegradesToNil(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		assert.Nil(t, classifyWith(t, "", errors.New("quota exceeded")))
	})

	t.Run("no JSON in response", func(t *testing.T) {
		assert.Nil(t, classifyWith(t, "I cannot analyze this email.", nil))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		assert.Nil(t, classifyWith(t, `{"is_job_related": true, "confidence": `, nil))
	})

	t.Run("nil service", func(t *testing.T) {
		adapter := NewClassifierAdapter(nil)
		msg := testMessage("", "subject", "body")
		assert.Nil(t, adapter.Classify(context.Background(), msg, NewExtractor().Extract(msg)))
	})
}

func TestBuildPromptIncludesPatternHints(t *testing.T) {
	service := &fakeClassifierService{response: "nothing"}
	adapter := NewClassifierAdapter(service)
	msg := testMessage("Acme Corp <jobs@acme.com>", "Your application for Staff Engineer at Acme.", "body")
	base := NewExtractor().Extract(msg)

	adapter.Classify(context.Background(), msg, base)

	require.Len(t, service.prompts, 1)
	assert.Contains(t, service.prompts[0], `"Acme Corp"`)
	assert.Contains(t, service.prompts[0], `"Staff Engineer"`)
	assert.Contains(t, service.prompts[0], "SUBJECT: Your application for Staff Engineer at Acme.")
}

func TestFirstJSONObjectHandlesNestedBraces(t *testing.T) {
	raw, ok := firstJSONObject(`prefix {"a": {"b": "}"}, "c": 1} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": "}"}, "c": 1}`, raw)

	_, ok = firstJSONObject(`{"unterminated": `)
	assert.False(t, ok)
}
