package queue

import (
	"context"

	"jobtrack-backend/internal/application/domain"
)

// Priority orders queued messages. High-priority messages are ones whose
// subject already shows a decisive status signal (offer, rejection,
// interview).
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Handler processes one dequeued message. A non-nil error requeues the
// message for redelivery.
type Handler func(ctx context.Context, msg *domain.EmailMessage) error

// WorkQueue is the at-least-once dispatch substrate the pipeline drains.
// Retry and backoff of redeliveries belong to the queue, not the pipeline.
type WorkQueue interface {
	Enqueue(ctx context.Context, msg *domain.EmailMessage, priority Priority) error
	// Receive blocks, delivering messages to handler until ctx is done.
	Receive(ctx context.Context, handler Handler) error
}
