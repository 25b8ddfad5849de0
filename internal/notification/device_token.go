package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceToken is one registered FCM push target.
type DeviceToken struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceTokenRepository stores push targets.
type DeviceTokenRepository interface {
	Register(token string) error
	Unregister(token string) error
	All() ([]DeviceToken, error)
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

func (r *deviceTokenRepository) Register(token string) error {
	var count int64
	r.db.Model(&DeviceToken{}).Where("token = ?", token).Count(&count)
	if count > 0 {
		return nil
	}

	record := DeviceToken{
		ID:    uuid.New().String(),
		Token: token,
	}
	if err := r.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

func (r *deviceTokenRepository) Unregister(token string) error {
	return r.db.Where("token = ?", token).Delete(&DeviceToken{}).Error
}

func (r *deviceTokenRepository) All() ([]DeviceToken, error) {
	var tokens []DeviceToken
	if err := r.db.Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	return tokens, nil
}
