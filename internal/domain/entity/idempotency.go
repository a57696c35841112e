package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed requests to prevent duplicate checkouts
type IdempotencyKey struct {
	ID           string    `gorm:"size:64;primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_staff;size:255;not null"` // The idempotency key from client
	StaffID      string    `gorm:"uniqueIndex:idx_idempotency_key_staff;size:64;not null"`  // Operator who made the request
	Endpoint     string    `gorm:"size:255;not null"`                                       // e.g. "POST /api/v1/register/checkout"
	ResponseCode int       `gorm:"not null"`                                                // 0 while the request is in flight
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a primary key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsPending reports whether the request holding the key has not finished
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == 0
}

// IsExpired checks if the idempotency key has expired at now
func (i *IdempotencyKey) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
