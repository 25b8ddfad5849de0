package pipeline

import (
	"context"
	"log"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/pkg/queue"
)

// Worker drains the work queue into the processor. Concurrency is bounded
// by the queue's delivery settings; each delivery runs one message
// end-to-end. Cancelling ctx stops intake while in-flight messages finish.
type Worker struct {
	queue     queue.WorkQueue
	processor *Processor
}

func NewWorker(q queue.WorkQueue, processor *Processor) *Worker {
	return &Worker{
		queue:     q,
		processor: processor,
	}
}

// Run blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Println("[Worker] Starting queue consumer")
	return w.queue.Receive(ctx, w.handle)
}

// handle adapts processor outcomes to queue semantics: store failures are
// returned so the message is redelivered, everything else is final.
func (w *Worker) handle(ctx context.Context, msg *domain.EmailMessage) error {
	outcome, err := w.processor.ProcessOne(ctx, msg)
	if err != nil {
		if IsStoreFailure(err) {
			return err
		}
		// Malformed input never gets better on redelivery
		log.Printf("[Worker] Dropping message %s: %s", msg.ID, outcome.Reason)
		return nil
	}
	return nil
}
