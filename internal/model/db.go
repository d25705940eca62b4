package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Resume{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&PublicLink{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&BillingProfile{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&WebhookEvent{}); err != nil {
		return err
	}

	return db.AutoMigrate(&Session{})
}
