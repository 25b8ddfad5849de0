package extraction

import (
	"context"

	"jobtrack-backend/internal/application/domain"
)

// Coordinator runs pattern extraction, consults the classifier, and merges
// both into one canonical fact. The classifier, once past the confidence
// gate, wins every field it populated; sourceLink and lastResponseDate
// always come from the message itself.
type Coordinator struct {
	extractor  *Extractor
	classifier *ClassifierAdapter
}

func NewCoordinator(extractor *Extractor, classifier *ClassifierAdapter) *Coordinator {
	return &Coordinator{
		extractor:  extractor,
		classifier: classifier,
	}
}

// Extract produces the canonical fact for one message. The result is never
// partial: every field carries at least its documented default.
func (c *Coordinator) Extract(ctx context.Context, msg *domain.EmailMessage) *domain.ApplicationFact {
	base := c.extractor.Extract(msg)
	fragment := c.classifier.Classify(ctx, msg, base)
	return merge(msg, base, fragment)
}

func merge(msg *domain.EmailMessage, base *domain.ApplicationFact, fragment *Fragment) *domain.ApplicationFact {
	fact := *base

	if fragment != nil {
		if fragment.Company != "" {
			fact.Company = fragment.Company
		}
		if fragment.Role != "" {
			fact.Role = fragment.Role
		}
		if fragment.Status != "" {
			fact.Status = domain.ParseStatus(fragment.Status)
		}
		if fragment.Platform != "" {
			fact.Platform = fragment.Platform
		}
		confidence := fragment.Confidence
		isJobRelated := fragment.IsJobRelated
		fact.Confidence = &confidence
		fact.IsJobRelated = &isJobRelated
	}

	// Provenance of these two is fixed regardless of extractor output
	fact.SourceLink = msg.Link
	fact.LastResponseDate = msg.ReceivedAt

	return &fact
}
