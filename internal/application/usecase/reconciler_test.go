package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/application/repository"
	"jobtrack-backend/pkg/fuzzy"
)

// memoryRepo implements the repository contract in memory for tests,
// including the substring-insensitive identity match.
type memoryRepo struct {
	apps    []*domain.Application
	creates int
	updates int
	failAll bool
}

func (r *memoryRepo) FindByIdentity(ctx context.Context, key domain.IdentityKey) (*domain.Application, error) {
	if r.failAll {
		return nil, fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)
	}
	if key.HasCompanyRole() {
		for _, app := range r.apps {
			if fuzzy.EitherContains(app.Company, key.Company) && fuzzy.EitherContains(app.Role, key.Role) {
				return app, nil
			}
		}
	}
	if key.SourceLink != "" {
		for _, app := range r.apps {
			if app.SourceLink == key.SourceLink {
				return app, nil
			}
		}
	}
	return nil, nil
}

func (r *memoryRepo) Create(ctx context.Context, app *domain.Application) error {
	if r.failAll {
		return fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)
	}
	r.creates++
	r.apps = append(r.apps, app)
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, app *domain.Application) error {
	if r.failAll {
		return fmt.Errorf("%w: connection refused", repository.ErrStoreUnavailable)
	}
	r.updates++
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	for _, app := range r.apps {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) List(ctx context.Context, status *domain.Status) ([]*domain.Application, error) {
	return r.apps, nil
}

func baseFact(received time.Time) *domain.ApplicationFact {
	return &domain.ApplicationFact{
		Company:          "Google",
		Role:             "Software Engineer",
		Status:           domain.StatusApplied,
		Platform:         "LinkedIn",
		LastResponseDate: received,
		SourceLink:       "https://mail.google.com/mail/u/0/#inbox/m1",
	}
}

func TestReconcileCreatesNewApplication(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	received := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	app, created, err := reconciler.Reconcile(context.Background(), baseFact(received))

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, repo.creates)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, "Google", app.Company)
	require.NotNil(t, app.ApplicationDate)
	assert.Equal(t, received, *app.ApplicationDate)
}

func TestReconcileIsIdempotent(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	received := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	_, created, err := reconciler.Reconcile(context.Background(), baseFact(received))
	require.NoError(t, err)
	require.True(t, created)

	// Same identity with different casing and a longer company form
	second := baseFact(received.Add(48 * time.Hour))
	second.Company = "google llc"
	second.Role = "software engineer"
	second.Status = domain.StatusInterview

	app, created, err := reconciler.Reconcile(context.Background(), second)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	assert.Len(t, repo.apps, 1)
	assert.Equal(t, domain.StatusInterview, app.Status)
}

func TestReconcileMatchesBySourceLink(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	received := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	_, _, err := reconciler.Reconcile(context.Background(), baseFact(received))
	require.NoError(t, err)

	// All-defaults fact from the same thread still lands on the same record
	second := &domain.ApplicationFact{
		Company:          domain.CompanyUnknown,
		Role:             domain.RoleNotSpecified,
		Status:           domain.StatusApplied,
		Platform:         domain.PlatformDirect,
		LastResponseDate: received.Add(time.Hour),
		SourceLink:       "https://mail.google.com/mail/u/0/#inbox/m1",
	}

	_, created, err := reconciler.Reconcile(context.Background(), second)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.apps, 1)
}

func TestMergeGuardsAgainstRegression(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	received := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	first := baseFact(received)
	first.Status = domain.StatusInterview
	existing, _, err := reconciler.Reconcile(context.Background(), first)
	require.NoError(t, err)
	originalDate := *existing.ApplicationDate

	// Defaults without classifier evidence must not erase known values
	second := &domain.ApplicationFact{
		Company:          domain.CompanyUnknown,
		Role:             domain.RoleNotSpecified,
		Status:           domain.StatusApplied,
		Platform:         "Indeed",
		ApplicationDate:  timePtr(received.AddDate(0, 0, 5)),
		LastResponseDate: received.Add(72 * time.Hour),
		SourceLink:       "https://mail.google.com/mail/u/0/#inbox/m1",
	}

	app, created, err := reconciler.Reconcile(context.Background(), second)

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Google", app.Company)
	assert.Equal(t, "Software Engineer", app.Role)
	assert.Equal(t, domain.StatusInterview, app.Status)
	// Platform and the response date always follow the newest signal
	assert.Equal(t, "Indeed", app.Platform)
	assert.Equal(t, second.LastResponseDate, app.LastResponseDate)
	// The application date is fixed at creation
	assert.Equal(t, originalDate, *app.ApplicationDate)
}

func TestMergeAcceptsDefaultsWithClassifierEvidence(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	received := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	first := baseFact(received)
	first.Status = domain.StatusInterview
	_, _, err := reconciler.Reconcile(context.Background(), first)
	require.NoError(t, err)

	confidence := 0.85
	isJobRelated := true
	second := baseFact(received.Add(time.Hour))
	second.Status = domain.StatusApplied
	second.Confidence = &confidence
	second.IsJobRelated = &isJobRelated

	app, _, err := reconciler.Reconcile(context.Background(), second)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, app.Status)
	require.NotNil(t, app.Confidence)
	assert.Equal(t, 0.85, *app.Confidence)
}

func TestReconcilePassesStoreErrorsThrough(t *testing.T) {
	repo := &memoryRepo{failAll: true}
	reconciler := NewReconciler(repo)

	_, _, err := reconciler.Reconcile(context.Background(), baseFact(time.Now()))

	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrStoreUnavailable))
}

func timePtr(t time.Time) *time.Time { return &t }
