package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/resumine/resumine/internal/cache"
	"github.com/resumine/resumine/internal/compress"
	"github.com/resumine/resumine/internal/model"
	"github.com/resumine/resumine/internal/slug"
	"github.com/resumine/resumine/internal/store"
)

const (
	defaultTemplate = "classic"
	// maxSlugAttempts bounds the collision retry loop. The store's unique
	// constraint is the authoritative collision signal, the loop just picks
	// the next counter suffix.
	maxSlugAttempts = 10

	fallbackFullName = "Unknown"
	fallbackJobTitle = "Professional"
)

// NewPublicLinkService creates a new PublicLinkService.
func NewPublicLinkService(compress compress.Compress, store store.Store, cache *cache.Redis, baseURL string) *PublicLinkService {
	return &PublicLinkService{
		compress: compress,
		store:    store,
		cache:    cache,
		baseURL:  baseURL,
	}
}

// PublicLinkService manages sharable public links for resumes.
type PublicLinkService struct {
	compress compress.Compress
	store    store.Store
	cache    *cache.Redis
	baseURL  string
}

type EnsurePublicLinkRequest struct {
	ResumeID  string `json:"resumeId"`
	LinkName  string `json:"linkName"`
	Template  string `json:"template"`
	VersionID string `json:"versionId"`
}

type PublicLinkResult struct {
	URL      string `json:"url"`
	Slug     string `json:"slug"`
	IsActive bool   `json:"isActive"`
}

// EnsurePublicLink creates or refreshes the public link for a resume. A
// request without a link name targets the resume's default link: when one
// exists it is updated in place, so repeated share requests stay
// idempotent and keep the same URL.
func (p *PublicLinkService) EnsurePublicLink(ctx context.Context, userID string, req *EnsurePublicLinkRequest) (*PublicLinkResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if req == nil || req.ResumeID == "" {
		return nil, ErrInvalidInput
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return nil, ErrResumeNotFound
	}

	resume, err := p.store.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	if resume.UserID != uid.String() {
		return nil, ErrResumeNotFound
	}

	profile, err := p.store.GetBillingProfileByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	isActive := LinkActive(profile, time.Now())

	if req.LinkName == model.DefaultLinkName {
		existing, err := p.store.GetDefaultPublicLink(ctx, resumeID)
		if err == nil {
			return p.refreshLink(ctx, existing, req, isActive)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return p.createLink(ctx, resume, req, isActive)
}

func (p *PublicLinkService) refreshLink(ctx context.Context, link *model.PublicLink, req *EnsurePublicLinkRequest, isActive bool) (*PublicLinkResult, error) {
	link.IsActive = isActive
	if req.Template != "" {
		link.Template = req.Template
	}
	link.VersionID = req.VersionID

	if err := p.store.UpdatePublicLink(ctx, link); err != nil {
		return nil, err
	}

	if p.cache != nil {
		// drop the stale cached copy, the next resolution re-caches
		_ = p.cache.DeletePublicLink(ctx, link.Slug)
	}

	return p.result(link), nil
}

func (p *PublicLinkService) createLink(ctx context.Context, resume *model.Resume, req *EnsurePublicLinkRequest, isActive bool) (*PublicLinkResult, error) {
	fullName, jobTitle := p.displayFields(resume)
	base := slug.Generate(fullName, jobTitle)

	template := req.Template
	if template == "" {
		template = defaultTemplate
	}

	link := &model.PublicLink{
		ID:        uuid.New().String(),
		ResumeID:  resume.ID,
		UserID:    resume.UserID,
		LinkName:  req.LinkName,
		Template:  template,
		VersionID: req.VersionID,
		IsActive:  isActive,
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		link.Slug = slug.WithSuffix(base, attempt)

		err := p.store.CreatePublicLink(ctx, link)
		if err == nil {
			logrus.Infof("created public link %s for resume %s", link.Slug, resume.ID)
			return p.result(link), nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}

		return nil, err
	}

	return nil, ErrSlugConflict
}

// ResolvedLink is the public view of an active link.
type ResolvedLink struct {
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Template  string          `json:"template"`
	VersionID string          `json:"versionId,omitempty"`
	Content   json.RawMessage `json:"content"`
}

// ResolvePublicLink resolves a slug to the shared resume content. Inactive
// links resolve to ErrLinkInactive so the caller can render a blocked state.
func (p *PublicLinkService) ResolvePublicLink(ctx context.Context, slugStr string) (*ResolvedLink, error) {
	link, err := p.lookupLink(ctx, slugStr)
	if err != nil {
		return nil, err
	}

	if !link.IsActive {
		return nil, ErrLinkInactive
	}

	resumeID, err := uuid.Parse(link.ResumeID)
	if err != nil {
		return nil, ErrLinkNotFound
	}

	resume, err := p.store.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	content, err := p.compress.Decode([]byte(resume.Content))
	if err != nil {
		return nil, err
	}

	return &ResolvedLink{
		Slug:      link.Slug,
		Title:     resume.Title,
		Template:  link.Template,
		VersionID: link.VersionID,
		Content:   json.RawMessage(content),
	}, nil
}

func (p *PublicLinkService) lookupLink(ctx context.Context, slugStr string) (*model.PublicLink, error) {
	if p.cache != nil {
		link, err := p.cache.GetPublicLink(ctx, slugStr)
		if err == nil && link != nil {
			return link, nil
		}
	}

	link, err := p.store.GetPublicLinkBySlug(ctx, slugStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}

	if p.cache != nil {
		_ = p.cache.SetPublicLink(ctx, link)
	}

	return link, nil
}

func (p *PublicLinkService) result(link *model.PublicLink) *PublicLinkResult {
	return &PublicLinkResult{
		URL:      p.baseURL + "/r/" + link.Slug,
		Slug:     link.Slug,
		IsActive: link.IsActive,
	}
}

type resumeContent struct {
	PersonalInfo struct {
		FullName string `json:"fullName"`
	} `json:"personalInfo"`
	Experience []struct {
		JobTitle string `json:"jobTitle"`
	} `json:"experience"`
}

// displayFields extracts the candidate name and first job title from the
// generated resume content, with placeholders when the content is missing
// or unparsable.
func (p *PublicLinkService) displayFields(resume *model.Resume) (string, string) {
	fullName, jobTitle := fallbackFullName, fallbackJobTitle

	data, err := p.compress.Decode([]byte(resume.Content))
	if err != nil {
		return fullName, jobTitle
	}

	var content resumeContent
	if err := json.Unmarshal(data, &content); err != nil {
		return fullName, jobTitle
	}

	if content.PersonalInfo.FullName != "" {
		fullName = content.PersonalInfo.FullName
	}
	if len(content.Experience) > 0 && content.Experience[0].JobTitle != "" {
		jobTitle = content.Experience[0].JobTitle
	}

	return fullName, jobTitle
}
