package models

import (
	"time"
)

// CacheEntry is a cached value persisted in the SQL fallback cache. Rows past
// ExpiresAt are treated as absent and reaped by the maintenance cleaner.
type CacheEntry struct {
	Key       string    `gorm:"primaryKey;size:256"`
	Value     []byte    `gorm:"type:blob"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
