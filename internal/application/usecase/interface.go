package usecase

import (
	"context"

	"jobtrack-backend/internal/application/domain"
)

// ApplicationUsecase is what the HTTP delivery layer talks to.
type ApplicationUsecase interface {
	ListApplications(ctx context.Context, status *domain.Status) ([]*domain.Application, error)
	GetApplication(ctx context.Context, id string) (*domain.Application, error)
	// UpdateStatus is the manual-correction path; it bypasses the
	// regression guard because a human said so.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Application, error)
}
