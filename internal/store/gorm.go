package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/resumine/resumine/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateResume(ctx context.Context, resume *model.Resume) error {
	return g.db.WithContext(ctx).Create(resume).Error
}

func (g *GormStore) GetResume(ctx context.Context, id uuid.UUID) (*model.Resume, error) {
	var resume model.Resume
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&resume).Error
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (g *GormStore) ListResumes(ctx context.Context, userID uuid.UUID) ([]*model.Resume, error) {
	var resumes []*model.Resume
	err := g.db.WithContext(ctx).Where("user_id = ?", userID.String()).Find(&resumes).Error
	return resumes, err
}

func (g *GormStore) CreatePublicLink(ctx context.Context, link *model.PublicLink) error {
	return g.db.WithContext(ctx).Create(link).Error
}

func (g *GormStore) GetPublicLinkBySlug(ctx context.Context, slug string) (*model.PublicLink, error) {
	var link model.PublicLink
	err := g.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (g *GormStore) GetDefaultPublicLink(ctx context.Context, resumeID uuid.UUID) (*model.PublicLink, error) {
	var link model.PublicLink
	err := g.db.WithContext(ctx).
		Where("resume_id = ? AND link_name = ?", resumeID.String(), model.DefaultLinkName).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (g *GormStore) ListPublicLinks(ctx context.Context, resumeID uuid.UUID) ([]*model.PublicLink, error) {
	var links []*model.PublicLink
	err := g.db.WithContext(ctx).Where("resume_id = ?", resumeID.String()).Find(&links).Error
	return links, err
}

func (g *GormStore) ListPublicLinksByUser(ctx context.Context, userID uuid.UUID) ([]*model.PublicLink, error) {
	var links []*model.PublicLink
	err := g.db.WithContext(ctx).Where("user_id = ?", userID.String()).Find(&links).Error
	return links, err
}

func (g *GormStore) UpdatePublicLink(ctx context.Context, link *model.PublicLink) error {
	return g.db.WithContext(ctx).Save(link).Error
}

func (g *GormStore) SetLinksActive(ctx context.Context, userID uuid.UUID, active bool) (int64, error) {
	res := g.db.WithContext(ctx).Model(&model.PublicLink{}).
		Where("user_id = ?", userID.String()).
		Update("is_active", active)
	if res.Error != nil {
		logrus.Errorf("error toggling links for user %s: %v", userID, res.Error)
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

func (g *GormStore) GetBillingProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.BillingProfile, error) {
	var profile model.BillingProfile
	err := g.db.WithContext(ctx).Where("user_id = ?", userID.String()).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (g *GormStore) GetBillingProfileByCustomerID(ctx context.Context, customerID string) (*model.BillingProfile, error) {
	var profile model.BillingProfile
	err := g.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g *GormStore) SaveBillingProfile(ctx context.Context, profile *model.BillingProfile) error {
	return g.db.WithContext(ctx).Save(profile).Error
}

func (g *GormStore) ListLapsedBillingProfiles(ctx context.Context, now time.Time) ([]*model.BillingProfile, error) {
	var profiles []*model.BillingProfile
	err := g.db.WithContext(ctx).
		Where("(trial_end_date IS NULL OR trial_end_date < ?) AND subscription_status NOT IN ?",
			now, []model.SubscriptionStatus{model.SubscriptionActive, model.SubscriptionTrialing}).
		Find(&profiles).Error
	return profiles, err
}

func (g *GormStore) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var session model.Session
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *GormStore) CreateWebhookEvent(ctx context.Context, event *model.WebhookEvent) error {
	return g.db.WithContext(ctx).Create(event).Error
}

func (g *GormStore) MarkWebhookEventProcessed(ctx context.Context, id string) error {
	now := time.Now()
	return g.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Update("processed_at", &now).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
