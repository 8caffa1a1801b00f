package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionFlagModel is the GORM-specific struct for the 'session_flags'
// table. One row per device and flag key, mirroring the key/value store
// the client persists its string-typed booleans in.
type SessionFlagModel struct {
	DeviceID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	FlagKey   string    `gorm:"type:varchar(64);primaryKey"`
	FlagValue string    `gorm:"type:varchar(16);not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionFlagModel) TableName() string {
	return "session_flags"
}
