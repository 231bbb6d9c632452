package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"mad-factory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IdeaService struct{ db *gorm.DB }

func NewIdeaService(db *gorm.DB) *IdeaService { return &IdeaService{db: db} }

// Submit validates and persists a new idea. All five fields are required
// after trimming, the pitch is capped at 140 characters and the category must
// come from the fixed set.
func (s *IdeaService) Submit(ctx context.Context, req model.SubmitIdeaRequest) (*model.Idea, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	email := strings.TrimSpace(req.Email)
	handle := strings.TrimSpace(req.TwitterHandle)

	if name == "" || description == "" || req.Category == "" || email == "" || handle == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if utf8.RuneCountInString(description) > 140 {
		return nil, fmt.Errorf("%w: description must be 140 characters or less", ErrValidation)
	}
	if !model.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	idea := model.Idea{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   description,
		Category:      req.Category,
		Email:         email,
		TwitterHandle: handle,
		Votes:         0,
		Status:        model.IdeaStatusSubmitted,
	}
	if err := s.db.WithContext(ctx).Create(&idea).Error; err != nil {
		return nil, fmt.Errorf("insert idea: %w", err)
	}
	return &idea, nil
}

// List returns ideas newest first, optionally filtered by status.
func (s *IdeaService) List(ctx context.Context, status string) ([]model.Idea, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ideas []model.Idea
	if err := q.Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	return ideas, nil
}

func (s *IdeaService) Get(ctx context.Context, id string) (*model.Idea, error) {
	var idea model.Idea
	err := s.db.WithContext(ctx).First(&idea, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("%w: idea %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query idea: %w", err)
	}
	return &idea, nil
}

// UpdateStatus is the manual operator override. It accepts any status from
// the closed set; transitions driven by rounds and launches go through the
// round and product services instead.
func (s *IdeaService) UpdateStatus(ctx context.Context, id, status string) error {
	if !model.ValidIdeaStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	res := s.db.WithContext(ctx).Model(&model.Idea{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update idea status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: idea %s", ErrNotFound, id)
	}
	return nil
}
