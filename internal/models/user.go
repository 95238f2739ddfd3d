package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns todos and carries the subscription state the free-tier
// quota is checked against. SubscriptionEnds is nil for users who never
// subscribed or whose subscription was lazily expired.
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password         string         `gorm:"not null" json:"-"`
	Role             string         `gorm:"size:20;default:'user'" json:"role"`
	IsSubscribed     bool           `gorm:"default:false" json:"isSubscribed"`
	SubscriptionEnds *time.Time     `json:"subscriptionEnds"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
