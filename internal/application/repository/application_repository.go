package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/pkg/fuzzy"
)

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// FindByIdentity implements the two-stage identity match. SQL narrows
// candidates by company substring both directions; role refinement happens
// in Go so "Software Engineer" still matches "Senior Software Engineer".
func (r *applicationRepository) FindByIdentity(ctx context.Context, key domain.IdentityKey) (*domain.Application, error) {
	if key.HasCompanyRole() {
		company := fuzzy.Normalize(key.Company)

		var candidates []domain.Application
		err := r.db.WithContext(ctx).
			Where("LOWER(company) LIKE '%' || ? || '%' OR ? LIKE '%' || LOWER(company) || '%'", company, company).
			Where("company <> ? AND role <> ?", domain.CompanyUnknown, domain.RoleNotSpecified).
			Order("created_at ASC").
			Find(&candidates).Error
		if err != nil {
			return nil, fmt.Errorf("%w: find by company/role: %v", ErrStoreUnavailable, err)
		}

		for i := range candidates {
			if fuzzy.EitherContains(candidates[i].Role, key.Role) {
				return &candidates[i], nil
			}
		}
	}

	// Secondary match: exact source link, only when company/role found nothing
	if key.SourceLink != "" {
		var app domain.Application
		err := r.db.WithContext(ctx).Where("source_link = ?", key.SourceLink).First(&app).Error
		if err == nil {
			return &app, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: find by source link: %v", ErrStoreUnavailable, err)
		}
	}

	return nil, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("%w: create application: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	if err := r.db.WithContext(ctx).Save(app).Error; err != nil {
		return fmt.Errorf("%w: update application %s: %v", ErrStoreUnavailable, app.ID, err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get application %s: %v", ErrStoreUnavailable, id, err)
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, status *domain.Status) ([]*domain.Application, error) {
	query := r.db.WithContext(ctx).Model(&domain.Application{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var apps []*domain.Application
	if err := query.Order("last_response_date DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("%w: list applications: %v", ErrStoreUnavailable, err)
	}
	return apps, nil
}
