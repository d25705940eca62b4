package model

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus represents the account's current billing state as
// reported by the billing provider.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionNone     SubscriptionStatus = "none"
)

// BillingProfile stores an account's billing identity and the last known
// subscription state delivered by the provider.
type BillingProfile struct {
	gorm.Model
	ID                   string             `gorm:"primaryKey;uuid;not null"`
	UserID               string             `gorm:"uuid;not null;uniqueIndex"`
	StripeCustomerID     string             `gorm:"size:191;index"`
	StripeSubscriptionID string             `gorm:"size:191"`
	SubscriptionStatus   SubscriptionStatus `gorm:"size:32;not null;default:'none'"`
	TrialEndDate         *time.Time
}

func (BillingProfile) TableName() string {
	return "billing_profiles"
}
