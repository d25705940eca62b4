package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/resumine/resumine/internal/compress"
	"github.com/resumine/resumine/internal/model"
	"github.com/resumine/resumine/internal/store"
)

// NewResumeService creates a new ResumeService.
func NewResumeService(compress compress.Compress, store store.Store) *ResumeService {
	return &ResumeService{
		compress: compress,
		store:    store,
	}
}

// ResumeService manages resume records.
type ResumeService struct {
	compress compress.Compress
	store    store.Store
}

type CreateResumeRequest struct {
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Content  json.RawMessage `json:"content"`
}

type ResumeView struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Content  json.RawMessage `json:"content"`
}

// CreateResume stores a new resume owned by the caller.
func (r *ResumeService) CreateResume(ctx context.Context, userID string, req *CreateResumeRequest) (*ResumeView, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if req == nil || len(req.Content) == 0 {
		return nil, ErrInvalidInput
	}

	content, err := r.compress.Encode(req.Content)
	if err != nil {
		return nil, err
	}

	resume := &model.Resume{
		ID:       uuid.New().String(),
		UserID:   uid.String(),
		Title:    req.Title,
		Template: req.Template,
		Content:  string(content),
	}

	if err := r.store.CreateResume(ctx, resume); err != nil {
		return nil, err
	}

	return &ResumeView{
		ID:       resume.ID,
		Title:    resume.Title,
		Template: resume.Template,
		Content:  req.Content,
	}, nil
}

// GetResume retrieves a resume owned by the caller.
func (r *ResumeService) GetResume(ctx context.Context, userID, resumeID string) (*ResumeView, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	id, err := uuid.Parse(resumeID)
	if err != nil {
		return nil, ErrResumeNotFound
	}

	resume, err := r.store.GetResume(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	if resume.UserID != uid.String() {
		return nil, ErrResumeNotFound
	}

	content, err := r.compress.Decode([]byte(resume.Content))
	if err != nil {
		return nil, err
	}

	return &ResumeView{
		ID:       resume.ID,
		Title:    resume.Title,
		Template: resume.Template,
		Content:  json.RawMessage(content),
	}, nil
}
