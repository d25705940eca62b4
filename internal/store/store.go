package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/resumine/resumine/internal/model"
)

type Store interface {
	ResumeStore
	PublicLinkStore
	BillingStore
	SessionStore
	WebhookEventStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type ResumeStore interface {
	// CreateResume creates a new resume.
	CreateResume(ctx context.Context, resume *model.Resume) error
	// GetResume retrieves a resume by ID.
	GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error)
	// ListResumes retrieves the resumes owned by a user.
	ListResumes(ctx context.Context, userID uuid.UUID) ([]*model.Resume, error)
}

type PublicLinkStore interface {
	// CreatePublicLink creates a new public link. A slug or
	// (resume, link name) collision surfaces as gorm.ErrDuplicatedKey.
	CreatePublicLink(ctx context.Context, link *model.PublicLink) error
	// GetPublicLinkBySlug retrieves a public link by its slug.
	GetPublicLinkBySlug(ctx context.Context, slug string) (*model.PublicLink, error)
	// GetDefaultPublicLink retrieves the resume's default link, if any.
	GetDefaultPublicLink(ctx context.Context, resumeID uuid.UUID) (*model.PublicLink, error)
	// ListPublicLinks retrieves all links for a resume.
	ListPublicLinks(ctx context.Context, resumeID uuid.UUID) ([]*model.PublicLink, error)
	// ListPublicLinksByUser retrieves all links owned by a user.
	ListPublicLinksByUser(ctx context.Context, userID uuid.UUID) ([]*model.PublicLink, error)
	// UpdatePublicLink updates a public link in place.
	UpdatePublicLink(ctx context.Context, link *model.PublicLink) error
	// SetLinksActive bulk-toggles the activation flag on every link owned
	// by the user and returns the number of affected rows.
	SetLinksActive(ctx context.Context, userID uuid.UUID, active bool) (int64, error)
}

type BillingStore interface {
	// GetBillingProfileByUserID retrieves a user's billing profile.
	// Returns (nil, nil) when the user has no profile yet.
	GetBillingProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.BillingProfile, error)
	// GetBillingProfileByCustomerID retrieves a billing profile by the
	// provider's customer reference.
	GetBillingProfileByCustomerID(ctx context.Context, customerID string) (*model.BillingProfile, error)
	// SaveBillingProfile creates or updates a billing profile.
	SaveBillingProfile(ctx context.Context, profile *model.BillingProfile) error
	// ListLapsedBillingProfiles retrieves profiles whose trial ended before
	// now and whose subscription no longer grants access.
	ListLapsedBillingProfiles(ctx context.Context, now time.Time) ([]*model.BillingProfile, error)
}

type SessionStore interface {
	// GetSessionByToken retrieves an unexpired session by its token.
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
}

type WebhookEventStore interface {
	// CreateWebhookEvent records a provider event. A replayed event id
	// surfaces as gorm.ErrDuplicatedKey.
	CreateWebhookEvent(ctx context.Context, event *model.WebhookEvent) error
	// MarkWebhookEventProcessed stamps the event as applied.
	MarkWebhookEventProcessed(ctx context.Context, id string) error
}
