package model

import "time"

// Note is a short text note owned by a user and scoped to that user's
// tenant. A note's tenant ID always equals its creating user's tenant ID,
// and every read, update and delete filters by the requester's tenant ID.
// Deletes are hard deletes.
type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
