package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/application/usecase"
	"jobtrack-backend/internal/extraction"
	"jobtrack-backend/pkg/retry"
)

// State is the terminal disposition of one message.
type State string

const (
	StateCommitted State = "committed"
	StateSkipped   State = "skipped"
	StateFailed    State = "failed"
)

// Outcome is the result of driving one message through the pipeline.
type Outcome struct {
	State       State               `json:"state"`
	Application *domain.Application `json:"application,omitempty"`
	Created     bool                `json:"created,omitempty"`
	Reason      string              `json:"reason,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Notifier is told about reconciled applications. Optional.
type Notifier interface {
	NotifyTracked(ctx context.Context, app *domain.Application, created bool)
}

// Processor drives one message through extraction and reconciliation with
// bounded retries on store writes. Classifier trouble never reaches here —
// the extraction layer absorbs it — so every error at this level is either
// malformed input or store unavailability.
type Processor struct {
	coordinator *extraction.Coordinator
	reconciler  *usecase.Reconciler
	retryCfg    retry.Config
	concurrency int
	notifier    Notifier
}

func NewProcessor(coordinator *extraction.Coordinator, reconciler *usecase.Reconciler, retryCfg retry.Config, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = 2
	}
	return &Processor{
		coordinator: coordinator,
		reconciler:  reconciler,
		retryCfg:    retryCfg,
		concurrency: concurrency,
	}
}

// SetNotifier allows wiring the notifier after creation
func (p *Processor) SetNotifier(n Notifier) {
	p.notifier = n
}

// ProcessOne runs Pending → Extracting → Reconciling → terminal for a single
// message. The returned error is non-nil only for the Failed state, so
// ad-hoc callers see the failure while batch callers can keep going.
func (p *Processor) ProcessOne(ctx context.Context, msg *domain.EmailMessage) (Outcome, error) {
	if err := msg.Validate(); err != nil {
		return Outcome{State: StateFailed, Reason: err.Error()}, err
	}

	// Extracting
	fact := p.coordinator.Extract(ctx, msg)

	// A confident classifier veto ends processing before any store call
	if fact.IsJobRelated != nil && !*fact.IsJobRelated {
		log.Printf("[Pipeline] Message %s vetoed by classifier, skipping", msg.ID)
		return Outcome{State: StateSkipped, Reason: "not job related"}, nil
	}

	// Reconciling, with the configured per-item retry budget
	var (
		app     *domain.Application
		created bool
	)
	err := retry.Do(ctx, p.retryCfg, func(ctx context.Context) error {
		var reconcileErr error
		app, created, reconcileErr = p.reconciler.Reconcile(ctx, fact)
		return reconcileErr
	})
	if err != nil {
		log.Printf("[Pipeline] Message %s failed reconciliation: %v", msg.ID, err)
		return Outcome{State: StateFailed, Reason: err.Error()}, err
	}

	if p.notifier != nil {
		p.notifier.NotifyTracked(ctx, app, created)
	}

	return Outcome{State: StateCommitted, Application: app, Created: created}, nil
}

// ProcessBatch runs messages through ProcessOne with bounded concurrency.
// One item reaching Failed never aborts its siblings; the summary carries
// the per-item outcomes instead.
func (p *Processor) ProcessBatch(ctx context.Context, msgs []*domain.EmailMessage) Summary {
	var (
		mu      sync.Mutex
		summary Summary
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, msg := range msgs {
		g.Go(func() error {
			outcome, err := p.ProcessOne(ctx, msg)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
			case outcome.State == StateSkipped:
				summary.Skipped++
			default:
				summary.Processed++
			}
			// Failures are recorded, never propagated: returning the error
			// would cancel the remaining items.
			return nil
		})
	}

	_ = g.Wait()

	log.Printf("[Pipeline] Batch done: %d processed, %d skipped, %d failed",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary
}

// IsStoreFailure reports whether an outcome failed on the store rather than
// on its own input. Store failures are worth redelivering; malformed
// messages are not.
func IsStoreFailure(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrMalformedMessage)
}
