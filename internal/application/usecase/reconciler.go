package usecase

import (
	"context"

	"github.com/google/uuid"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/application/repository"
)

// Reconciler folds canonical facts into the application store without ever
// creating duplicates or replacing known data with extraction defaults.
// Store failures pass through untouched; retrying them is the pipeline's
// job, and replays are safe because matching runs on the identity key.
type Reconciler struct {
	repo repository.ApplicationRepository
}

func NewReconciler(repo repository.ApplicationRepository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Reconcile creates or updates the application matching the fact's identity
// key. Returns the resulting record and whether it was newly created.
func (r *Reconciler) Reconcile(ctx context.Context, fact *domain.ApplicationFact) (*domain.Application, bool, error) {
	existing, err := r.repo.FindByIdentity(ctx, fact.Identity())
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		app := r.newApplication(fact)
		if err := r.repo.Create(ctx, app); err != nil {
			return nil, false, err
		}
		return app, true, nil
	}

	r.mergeInto(existing, fact)
	if err := r.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Reconciler) newApplication(fact *domain.ApplicationFact) *domain.Application {
	applicationDate := fact.ApplicationDate
	if applicationDate == nil {
		received := fact.LastResponseDate
		applicationDate = &received
	}

	return &domain.Application{
		ID:               uuid.New().String(),
		Company:          fact.Company,
		Role:             fact.Role,
		Status:           fact.Status,
		Platform:         fact.Platform,
		ApplicationDate:  applicationDate,
		LastResponseDate: fact.LastResponseDate,
		SourceLink:       fact.SourceLink,
		Confidence:       fact.Confidence,
		IsJobRelated:     fact.IsJobRelated,
	}
}

// mergeInto applies the regression guard: company, role and status are
// protected — an incoming default sentinel only replaces a known value when
// the fact carries passed-gate classifier evidence. Platform and
// lastResponseDate always follow the newest signal. applicationDate is
// creation-only.
func (r *Reconciler) mergeInto(app *domain.Application, fact *domain.ApplicationFact) {
	corroborated := fact.HasClassifierEvidence()

	if fact.Company != domain.CompanyUnknown || corroborated || app.Company == "" {
		app.Company = fact.Company
	}
	if fact.Role != domain.RoleNotSpecified || corroborated || app.Role == "" {
		app.Role = fact.Role
	}
	if fact.Status != domain.StatusApplied || corroborated {
		app.Status = fact.Status
	}

	app.Platform = fact.Platform
	app.LastResponseDate = fact.LastResponseDate
	if fact.SourceLink != "" {
		app.SourceLink = fact.SourceLink
	}
	if fact.Confidence != nil {
		app.Confidence = fact.Confidence
	}
	if fact.IsJobRelated != nil {
		app.IsJobRelated = fact.IsJobRelated
	}
}
