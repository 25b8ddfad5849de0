package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/pkg/ai"
)

// ConfidenceThreshold is the strict lower bound for trusting classifier
// output over pattern output. Exactly 0.6 is rejected.
const ConfidenceThreshold = 0.6

const (
	maxPromptBodyChars = 1500
	maxPromptBodyLines = 30
)

// Fragment is the structured result the classifier is asked to emit.
type Fragment struct {
	IsJobRelated bool    `json:"is_job_related"`
	Company      string  `json:"company"`
	Role         string  `json:"role"`
	Status       string  `json:"status"`
	Platform     string  `json:"platform"`
	Confidence   float64 `json:"confidence"`
}

// ClassifierAdapter wraps the external classification function. Every
// failure mode — transport, malformed output, low confidence — degrades to
// a nil fragment; classification never fails an extraction.
type ClassifierAdapter struct {
	service ai.ClassifierService
	limiter *rate.Limiter
}

// NewClassifierAdapter creates the adapter. service may be nil when no AI
// provider is configured; Classify then always returns nil.
func NewClassifierAdapter(service ai.ClassifierService) *ClassifierAdapter {
	return &ClassifierAdapter{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(1), 3), // cap provider calls at 1/s
	}
}

// Classify runs the external classifier over one message and returns the
// fragment when its confidence clears the gate, nil otherwise. A fragment
// with IsJobRelated=false above the gate is a veto and is returned so the
// pipeline can skip the message.
func (a *ClassifierAdapter) Classify(ctx context.Context, msg *domain.EmailMessage, base *domain.ApplicationFact) *Fragment {
	if a.service == nil {
		return nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil
	}

	response, err := a.service.Classify(ctx, a.buildPrompt(msg, base))
	if err != nil {
		log.Printf("[Classifier] Provider unavailable for message %s: %v", msg.ID, err)
		return nil
	}

	fragment, err := parseFragment(response)
	if err != nil {
		log.Printf("[Classifier] Unusable response for message %s: %v", msg.ID, err)
		return nil
	}

	if fragment.Confidence <= ConfidenceThreshold {
		return nil
	}
	return fragment
}

// buildPrompt bounds the body excerpt by characters and lines to keep the
// external call's cost and latency predictable.
func (a *ClassifierAdapter) buildPrompt(msg *domain.EmailMessage, base *domain.ApplicationFact) string {
	body := msg.Body
	if lines := strings.Split(body, "\n"); len(lines) > maxPromptBodyLines {
		body = strings.Join(lines[:maxPromptBodyLines], "\n")
	}
	if len(body) > maxPromptBodyChars {
		body = body[:maxPromptBodyChars]
	}

	return fmt.Sprintf(`You are an assistant that tracks job applications from email.
Analyze the email below and decide whether it is about a job application the
recipient made, then extract the application facts.

Respond with a single JSON object and nothing else:
{"is_job_related": true|false, "company": "...", "role": "...", "status": "Applied|Interview|Offer|OfferRejected|Rejected", "platform": "...", "confidence": 0.0-1.0}

Pattern matching suggested company %q and role %q; correct them if the email
says otherwise.

FROM: %s
SUBJECT: %s
BODY:
%s`, base.Company, base.Role, msg.From, msg.Subject, body)
}

// parseFragment pulls the first balanced {...} span out of the model's
// free-text response and decodes it.
func parseFragment(response string) (*Fragment, error) {
	raw, ok := firstJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var fragment Fragment
	if err := json.Unmarshal([]byte(raw), &fragment); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	return &fragment, nil
}

func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
