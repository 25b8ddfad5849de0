package delivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/internal/application/usecase"
	"jobtrack-backend/internal/notification"
	"jobtrack-backend/internal/pipeline"
)

// Syncer triggers an immediate mailbox sync.
type Syncer interface {
	SyncNow(ctx context.Context) (int, error)
}

type ApplicationHandler struct {
	usecase   usecase.ApplicationUsecase
	processor *pipeline.Processor
	syncer    Syncer
	tokenRepo notification.DeviceTokenRepository
}

func NewApplicationHandler(uc usecase.ApplicationUsecase, processor *pipeline.Processor, syncer Syncer, tokenRepo notification.DeviceTokenRepository) *ApplicationHandler {
	return &ApplicationHandler{
		usecase:   uc,
		processor: processor,
		syncer:    syncer,
		tokenRepo: tokenRepo,
	}
}

// ListApplications handles GET /api/applications?status=Interview
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		s := domain.Status(raw)
		if !domain.ValidStatus(s) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
		status = &s
	}

	apps, err := h.usecase.ListApplications(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// GetApplication handles GET /api/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	app, err := h.usecase.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}

// UpdateStatus handles PATCH /api/applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status domain.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app)
}

// TriggerSync handles POST /api/sync
func (h *ApplicationHandler) TriggerSync(c *gin.Context) {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "background sync is not configured"})
		return
	}
	enqueued, err := h.syncer.SyncNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enqueued": enqueued})
}

// ProcessMessage handles POST /api/process: one message through the
// pipeline, synchronously. Failures propagate to the caller here, unlike in
// batch processing.
func (h *ApplicationHandler) ProcessMessage(c *gin.Context) {
	var msg domain.EmailMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.processor.ProcessOne(c.Request.Context(), &msg)
	if err != nil {
		status := http.StatusBadGateway
		if !pipeline.IsStoreFailure(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error(), "outcome": outcome})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ProcessBatch handles POST /api/process/batch. Per-item outcomes are
// aggregated; one bad item never fails the request.
func (h *ApplicationHandler) ProcessBatch(c *gin.Context) {
	var msgs []*domain.EmailMessage
	if err := c.ShouldBindJSON(&msgs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := h.processor.ProcessBatch(c.Request.Context(), msgs)
	c.JSON(http.StatusOK, summary)
}

// RegisterDevice handles POST /api/devices
func (h *ApplicationHandler) RegisterDevice(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokenRepo.Register(req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"registered": true})
}

// UnregisterDevice handles DELETE /api/devices/:token
func (h *ApplicationHandler) UnregisterDevice(c *gin.Context) {
	if err := h.tokenRepo.Unregister(c.Param("token")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unregistered": true})
}
