package models

import (
	"time"

	"github.com/google/uuid"
)

// ShortageNotice is one persisted shortage report shown to a session.
type ShortageNotice struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	SessionID string     `gorm:"column:session_id;not null;index"`
	Message   string     `gorm:"column:message;not null"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
