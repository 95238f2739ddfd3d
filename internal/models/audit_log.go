package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records every mutation performed through the admin panel.
// Admin operations skip ownership checks, so each one leaves a row
// saying who did what to whom.
type AuditLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action       string         `gorm:"size:50;not null;index" json:"action"`
	TargetUserID *uuid.UUID     `gorm:"type:uuid;index" json:"target_user_id"`
	Detail       datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}
