package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-backend/internal/application/domain"
)

func TestUpdateStatusManualCorrection(t *testing.T) {
	repo := &memoryRepo{}
	reconciler := NewReconciler(repo)
	uc := NewApplicationUsecase(repo)

	created, _, err := reconciler.Reconcile(context.Background(), baseFact(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	app, err := uc.UpdateStatus(context.Background(), created.ID, domain.StatusOfferRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOfferRejected, app.Status)
}

func TestUpdateStatusRejectsUnknownValues(t *testing.T) {
	uc := NewApplicationUsecase(&memoryRepo{})

	_, err := uc.UpdateStatus(context.Background(), "some-id", domain.Status("Ghosted"))
	assert.Error(t, err)
}

func TestUpdateStatusUnknownApplication(t *testing.T) {
	uc := NewApplicationUsecase(&memoryRepo{})

	_, err := uc.UpdateStatus(context.Background(), "missing", domain.StatusApplied)
	assert.Error(t, err)
}
