package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo belongs to exactly one user; ownership never changes after
// creation. Listing orders by (created_at, id) so pagination stays
// deterministic when rows share a creation timestamp.
type Todo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Title     string    `gorm:"not null;size:500" json:"title"`
	Completed bool      `gorm:"default:false" json:"completed"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
