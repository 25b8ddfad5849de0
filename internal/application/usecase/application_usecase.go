package usecase

import (
	"context"
	"fmt"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/application/repository"
)

// applicationUsecase implements ApplicationUsecase
type applicationUsecase struct {
	repo repository.ApplicationRepository
}

func NewApplicationUsecase(repo repository.ApplicationRepository) ApplicationUsecase {
	return &applicationUsecase{repo: repo}
}

func (u *applicationUsecase) ListApplications(ctx context.Context, status *domain.Status) ([]*domain.Application, error) {
	return u.repo.List(ctx, status)
}

func (u *applicationUsecase) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Application, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	app, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application %s not found", id)
	}

	app.Status = status
	if err := u.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}
