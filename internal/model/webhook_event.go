package model

import (
	"time"

	"gorm.io/gorm"
)

// WebhookEvent records a processed billing provider event. The unique
// (provider, provider_event_id) index is the idempotency key, at-least-once
// delivery must not double-apply bulk activation toggles.
type WebhookEvent struct {
	gorm.Model
	ID              string `gorm:"primaryKey;uuid;not null"`
	Provider        string `gorm:"size:20;not null;uniqueIndex:idx_webhook_events_provider_event,priority:1"`
	ProviderEventID string `gorm:"size:191;not null;uniqueIndex:idx_webhook_events_provider_event,priority:2"`
	EventType       string `gorm:"size:100;not null;index"`
	ProcessedAt     *time.Time
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
