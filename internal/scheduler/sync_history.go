package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncedMessage records a message the scheduler already enqueued. Replaying
// a message is harmless downstream, the ledger only avoids paying for
// re-extraction and classifier calls on every poll.
type SyncedMessage struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	MessageID  string    `json:"message_id" gorm:"uniqueIndex;not null"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// SyncHistoryRepository tracks which mailbox messages have been enqueued.
type SyncHistoryRepository interface {
	// EnsureEnqueued marks messageID as enqueued and reports whether it
	// already was (check and create in one query).
	EnsureEnqueued(ctx context.Context, messageID string) (bool, error)
}

// syncHistoryRepository implements SyncHistoryRepository
type syncHistoryRepository struct {
	db *gorm.DB
}

func NewSyncHistoryRepository(db *gorm.DB) SyncHistoryRepository {
	return &syncHistoryRepository{db: db}
}

func (r *syncHistoryRepository) EnsureEnqueued(ctx context.Context, messageID string) (bool, error) {
	var record SyncedMessage

	result := r.db.WithContext(ctx).Where("message_id = ?", messageID).FirstOrCreate(&record, SyncedMessage{
		ID:         uuid.New().String(),
		MessageID:  messageID,
		EnqueuedAt: time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}

	// RowsAffected == 0 means the record already existed
	return result.RowsAffected == 0, nil
}
