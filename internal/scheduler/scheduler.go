package scheduler

import (
	"context"
	"log"
	"time"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/extraction"
	"jobtrack-backend/pkg/queue"
)

// MailFetcher is the ingestion boundary the scheduler polls.
type MailFetcher interface {
	FetchCandidateMessages(ctx context.Context, maxResults, daysBack int) ([]*domain.EmailMessage, error)
}

// SyncScheduler periodically pulls candidate messages from the mailbox and
// feeds them to the work queue. Messages whose subject already shows a
// decisive status signal enqueue with high priority.
type SyncScheduler struct {
	fetcher    MailFetcher
	queue      queue.WorkQueue
	history    SyncHistoryRepository
	interval   time.Duration
	maxResults int
	daysBack   int
	stopChan   chan struct{}
}

func NewSyncScheduler(fetcher MailFetcher, q queue.WorkQueue, history SyncHistoryRepository, interval time.Duration, maxResults, daysBack int) *SyncScheduler {
	return &SyncScheduler{
		fetcher:    fetcher,
		queue:      q,
		history:    history,
		interval:   interval,
		maxResults: maxResults,
		daysBack:   daysBack,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *SyncScheduler) Start() {
	log.Printf("[Scheduler] Starting mailbox sync (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.syncOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.syncOnce()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop() {
	close(s.stopChan)
}

func (s *SyncScheduler) syncOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.SyncNow(ctx); err != nil {
		log.Printf("[Scheduler] Sync failed: %v", err)
	}
}

// SyncNow fetches and enqueues once, returning how many messages were
// enqueued. Also the manual-trigger path behind POST /api/sync.
func (s *SyncScheduler) SyncNow(ctx context.Context) (int, error) {
	messages, err := s.fetcher.FetchCandidateMessages(ctx, s.maxResults, s.daysBack)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, msg := range messages {
		if s.history != nil {
			seen, err := s.history.EnsureEnqueued(ctx, msg.ID)
			if err != nil {
				log.Printf("[Scheduler] Sync history lookup failed for %s: %v", msg.ID, err)
			} else if seen {
				continue
			}
		}

		priority := queue.PriorityNormal
		if extraction.HasDecisiveSignal(msg.Subject) {
			priority = queue.PriorityHigh
		}

		if err := s.queue.Enqueue(ctx, msg, priority); err != nil {
			log.Printf("[Scheduler] Failed to enqueue message %s: %v", msg.ID, err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Printf("[Scheduler] Enqueued %d candidate messages", enqueued)
	}
	return enqueued, nil
}
