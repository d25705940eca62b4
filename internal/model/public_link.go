package model

import "gorm.io/gorm"

// DefaultLinkName is the discriminator stored for a resume's default link.
// An empty string sentinel keeps the (resume_id, link_name) unique index
// well defined across store implementations, NULL semantics differ.
const DefaultLinkName = ""

// PublicLink represents a sharable public link for a resume. The slug is
// the link's identity, it never changes once assigned.
type PublicLink struct {
	gorm.Model
	ID        string `gorm:"primaryKey;uuid;not null"`
	ResumeID  string `gorm:"uuid;not null;uniqueIndex:idx_public_links_resume_name,priority:1"`
	UserID    string `gorm:"uuid;not null;index"`
	Slug      string `gorm:"size:80;not null;uniqueIndex"`
	LinkName  string `gorm:"size:100;not null;default:'';uniqueIndex:idx_public_links_resume_name,priority:2"`
	Template  string `gorm:"size:50;not null;default:'classic'"`
	VersionID string `gorm:"size:100"`
	IsActive  bool   `gorm:"not null;default:true"`
}

func (PublicLink) TableName() string {
	return "public_links"
}

// IsDefault reports whether this is the resume's default link.
func (l *PublicLink) IsDefault() bool {
	return l.LinkName == DefaultLinkName
}
