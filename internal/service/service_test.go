package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mad-factory/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the production schema.
// A single connection keeps sqlite happy under the concurrent tests; the
// services still race at the application level.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(&model.Idea{}, &model.Vote{}, &model.VotingRound{}, &model.Product{})
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedIdea(t *testing.T, db *gorm.DB, name, status string) *model.Idea {
	t.Helper()
	idea := &model.Idea{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   "a test idea",
		Category:      "Bot",
		Email:         "someone@example.com",
		TwitterHandle: "@someone",
		Status:        status,
		CreatedAt:     time.Now(),
	}
	if err := db.Create(idea).Error; err != nil {
		t.Fatalf("seed idea: %v", err)
	}
	return idea
}

func seedVotingIdea(t *testing.T, db *gorm.DB, name string, round, votes int) *model.Idea {
	t.Helper()
	idea := seedIdea(t, db, name, model.IdeaStatusVoting)
	err := db.Model(idea).Updates(map[string]interface{}{
		"voting_round": round,
		"votes":        votes,
	}).Error
	if err != nil {
		t.Fatalf("seed voting idea: %v", err)
	}
	idea.VotingRound = &round
	idea.Votes = votes
	return idea
}

func seedActiveRound(t *testing.T, db *gorm.DB, number int) *model.VotingRound {
	t.Helper()
	active := true
	now := time.Now()
	round := &model.VotingRound{
		ID:          uuid.NewString(),
		RoundNumber: number,
		StartsAt:    now,
		EndsAt:      now.Add(VotingDurationDays * 24 * time.Hour),
		Status:      model.RoundStatusActive,
		Active:      &active,
	}
	if err := db.Create(round).Error; err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return round
}

func ideaByID(t *testing.T, db *gorm.DB, id string) *model.Idea {
	t.Helper()
	var idea model.Idea
	if err := db.First(&idea, "id = ?", id).Error; err != nil {
		t.Fatalf("load idea %s: %v", id, err)
	}
	return &idea
}

var ctx = context.Background()
