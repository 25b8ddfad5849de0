package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/pkg/queue"
)

type fakeFetcher struct {
	messages []*domain.EmailMessage
	err      error
}

func (f *fakeFetcher) FetchCandidateMessages(ctx context.Context, maxResults, daysBack int) ([]*domain.EmailMessage, error) {
	return f.messages, f.err
}

type fakeQueue struct {
	enqueued   []string
	priorities map[string]queue.Priority
}

func (q *fakeQueue) Enqueue(ctx context.Context, msg *domain.EmailMessage, priority queue.Priority) error {
	if q.priorities == nil {
		q.priorities = make(map[string]queue.Priority)
	}
	q.enqueued = append(q.enqueued, msg.ID)
	q.priorities[msg.ID] = priority
	return nil
}

func (q *fakeQueue) Receive(ctx context.Context, handler queue.Handler) error {
	return nil
}

type fakeHistory struct {
	seen map[string]bool
}

func (h *fakeHistory) EnsureEnqueued(ctx context.Context, messageID string) (bool, error) {
	if h.seen == nil {
		h.seen = make(map[string]bool)
	}
	already := h.seen[messageID]
	h.seen[messageID] = true
	return already, nil
}

func candidate(id, subject string) *domain.EmailMessage {
	return &domain.EmailMessage{ID: id, Subject: subject, ReceivedAt: time.Now()}
}

func TestSyncNowPrioritizesDecisiveSubjects(t *testing.T) {
	q := &fakeQueue{}
	fetcher := &fakeFetcher{messages: []*domain.EmailMessage{
		candidate("m1", "Thank you for applying"),
		candidate("m2", "Interview invitation"),
	}}
	s := NewSyncScheduler(fetcher, q, nil, time.Minute, 50, 7)

	enqueued, err := s.SyncNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, enqueued)
	assert.Equal(t, queue.PriorityNormal, q.priorities["m1"])
	assert.Equal(t, queue.PriorityHigh, q.priorities["m2"])
}

func TestSyncNowSkipsAlreadyEnqueued(t *testing.T) {
	q := &fakeQueue{}
	fetcher := &fakeFetcher{messages: []*domain.EmailMessage{
		candidate("m1", "Update"),
		candidate("m2", "Update"),
	}}
	s := NewSyncScheduler(fetcher, q, &fakeHistory{}, time.Minute, 50, 7)

	enqueued, err := s.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, enqueued)

	// Second poll sees the same candidates and enqueues none of them
	enqueued, err = s.SyncNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, enqueued)
	assert.Equal(t, []string{"m1", "m2"}, q.enqueued)
}

func TestSyncNowPropagatesFetchErrors(t *testing.T) {
	s := NewSyncScheduler(&fakeFetcher{err: errors.New("token expired")}, &fakeQueue{}, nil, time.Minute, 50, 7)

	_, err := s.SyncNow(context.Background())
	assert.Error(t, err)
}
