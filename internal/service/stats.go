package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"mad-factory/internal/model"

	"gorm.io/gorm"
)

type StatsService struct{ db *gorm.DB }

func NewStatsService(db *gorm.DB) *StatsService { return &StatsService{db: db} }

// Totals returns aggregate counts plus the site-wide day number: days
// elapsed since the first product was created, never below 1.
func (s *StatsService) Totals(ctx context.Context) (*model.StatsResponse, error) {
	out := &model.StatsResponse{DayNumber: 1}

	db := s.db.WithContext(ctx)
	if err := db.Model(&model.Product{}).Count(&out.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if err := db.Model(&model.Idea{}).Count(&out.TotalIdeas).Error; err != nil {
		return nil, fmt.Errorf("count ideas: %w", err)
	}
	if err := db.Model(&model.Vote{}).Count(&out.TotalVotes).Error; err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	var first model.Product
	err := db.Order("created_at ASC").First(&first).Error
	if err == gorm.ErrRecordNotFound {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query first product: %w", err)
	}

	days := int(math.Ceil(time.Since(first.CreatedAt).Hours() / 24))
	if days > out.DayNumber {
		out.DayNumber = days
	}
	return out, nil
}
