package model

import "gorm.io/gorm"

// Resume represents a user's generated resume. Content holds the
// generated resume JSON, encoded with the configured compression codec.
type Resume struct {
	gorm.Model
	ID          string `gorm:"primaryKey;uuid;not null"`
	UserID      string `gorm:"uuid;not null;index"`
	Title       string `gorm:"size:255"`
	Content     string `gorm:"type:text"`
	Template    string `gorm:"size:50"`
	Compression string // the compression algorithm used to encode the resume content
}

func (Resume) TableName() string {
	return "resumes"
}
