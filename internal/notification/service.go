package notification

import (
	"context"
	"fmt"
	"log"

	"jobtrack-backend/internal/application/domain"
	"jobtrack-backend/pkg/fcm"
)

// Service pushes FCM notifications when the pipeline tracks something new.
// fcmClient may be nil (push disabled); the service then does nothing.
type Service struct {
	fcmClient *fcm.Client
	tokenRepo DeviceTokenRepository
}

func NewService(fcmClient *fcm.Client, tokenRepo DeviceTokenRepository) *Service {
	return &Service{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
	}
}

// NotifyTracked implements pipeline.Notifier. New applications always
// notify; updates notify only when they carry a decisive status.
func (s *Service) NotifyTracked(ctx context.Context, app *domain.Application, created bool) {
	if s.fcmClient == nil {
		return
	}
	if !created && app.Status == domain.StatusApplied {
		return
	}

	tokens, err := s.tokenRepo.All()
	if err != nil {
		log.Printf("[Notification] Failed to load device tokens: %v", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	title := fmt.Sprintf("Application update: %s", app.Company)
	body := fmt.Sprintf("%s: %s", app.Role, app.Status)
	if created {
		title = fmt.Sprintf("New application tracked: %s", app.Company)
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := s.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":           "application_update",
			"application_id": app.ID,
			"status":         string(app.Status),
		},
	})
	if err != nil {
		log.Printf("[Notification] Failed to send push for application %s: %v", app.ID, err)
		return
	}

	// Cleanup failed tokens
	for _, token := range failedTokens {
		if err := s.tokenRepo.Unregister(token); err != nil {
			log.Printf("[Notification] Failed to prune dead token: %v", err)
		}
	}
}
