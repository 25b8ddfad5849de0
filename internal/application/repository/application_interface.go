package repository

import (
	"context"
	"errors"

	"jobtrack-backend/internal/application/domain"
)

// ErrStoreUnavailable wraps every transport-level failure of the record
// store so the pipeline can tell store trouble apart from bad input.
var ErrStoreUnavailable = errors.New("application store unavailable")

// ApplicationRepository is the record store boundary. Lookups and writes may
// fail with a wrapped ErrStoreUnavailable; they are never retried here —
// retry policy belongs to the pipeline.
type ApplicationRepository interface {
	// FindByIdentity matches company+role (case- and substring-insensitive)
	// first, source link second. Returns (nil, nil) when nothing matches.
	FindByIdentity(ctx context.Context, key domain.IdentityKey) (*domain.Application, error)
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	// List returns applications newest-signal-first, optionally filtered by
	// status.
	List(ctx context.Context, status *domain.Status) ([]*domain.Application, error)
}
