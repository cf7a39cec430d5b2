package models

import "time"

// ProgressDocument is one persisted progress state, keyed by a namespaced profile key.
type ProgressDocument struct {
	ProfileKey string `gorm:"primaryKey;size:191"`
	Document   string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
