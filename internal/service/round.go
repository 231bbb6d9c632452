package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mad-factory/internal/logger"
	"mad-factory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VotingDurationDays = 3
	MaxIdeasPerRound   = 3
)

// RoundService owns the round lifecycle. At most one round is active at a
// time; the database enforces that through the unique Active sentinel, so
// concurrent starts resolve to one winner without any in-process lock.
type RoundService struct{ db *gorm.DB }

func NewRoundService(db *gorm.DB) *RoundService { return &RoundService{db: db} }

// Start opens a round over 1-3 ideas: the ideas move to voting with their
// counters reset to zero, even if they carried votes from an earlier round.
func (s *RoundService) Start(ctx context.Context, ideaIDs []string) (*model.VotingRound, error) {
	if len(ideaIDs) == 0 || len(ideaIDs) > MaxIdeasPerRound {
		return nil, fmt.Errorf("%w: select 1-%d ideas for voting", ErrValidation, MaxIdeasPerRound)
	}
	seen := make(map[string]bool, len(ideaIDs))
	for _, id := range ideaIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate idea id %s", ErrValidation, id)
		}
		seen[id] = true
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Idea{}).Where("id IN ?", ideaIDs).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("query ideas: %w", err)
	}
	if count != int64(len(ideaIDs)) {
		return nil, fmt.Errorf("%w: one or more ideas do not exist", ErrNotFound)
	}

	var last model.VotingRound
	next := 1
	err = s.db.WithContext(ctx).Order("round_number DESC").First(&last).Error
	if err == nil {
		next = last.RoundNumber + 1
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("query last round: %w", err)
	}

	now := time.Now()
	active := true
	round := model.VotingRound{
		ID:          uuid.NewString(),
		RoundNumber: next,
		StartsAt:    now,
		EndsAt:      now.Add(VotingDurationDays * 24 * time.Hour),
		Status:      model.RoundStatusActive,
		Active:      &active,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		return tx.Model(&model.Idea{}).Where("id IN ?", ideaIDs).
			Updates(map[string]interface{}{
				"status":       model.IdeaStatusVoting,
				"voting_round": next,
				"votes":        0,
			}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrRoundActive
	}
	if err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}

	logger.Info("round.started", "round", next, "ideas", len(ideaIDs), "ends_at", round.EndsAt)
	return &round, nil
}

// End closes the active round: the idea with the most votes becomes the
// winner and moves to building, every other idea returns to the submission
// pool. Ties break on earliest submission time. Only one concurrent caller
// can flip the round to ended; the loser of that race gets ErrNoActiveRound.
func (s *RoundService) End(ctx context.Context) (*model.Idea, error) {
	round, err := s.active(ctx)
	if err != nil {
		return nil, err
	}

	var ideas []model.Idea
	err = s.db.WithContext(ctx).
		Where("voting_round = ? AND status = ?", round.RoundNumber, model.IdeaStatusVoting).
		Order("votes DESC, created_at ASC").
		Find(&ideas).Error
	if err != nil {
		return nil, fmt.Errorf("query round ideas: %w", err)
	}
	if len(ideas) == 0 {
		return nil, ErrNoIdeasInRound
	}
	winner := ideas[0]

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.VotingRound{}).
			Where("id = ? AND status = ?", round.ID, model.RoundStatusActive).
			Updates(map[string]interface{}{
				"status":          model.RoundStatusEnded,
				"active":          nil,
				"winning_idea_id": winner.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another caller already ended the round.
			return ErrNoActiveRound
		}

		if err := tx.Model(&model.Idea{}).Where("id = ?", winner.ID).
			Update("status", model.IdeaStatusBuilding).Error; err != nil {
			return err
		}
		// Losers keep their stale voting_round value for the audit trail;
		// status alone says whether an idea is in a round.
		return tx.Model(&model.Idea{}).
			Where("voting_round = ? AND status = ? AND id <> ?",
				round.RoundNumber, model.IdeaStatusVoting, winner.ID).
			Update("status", model.IdeaStatusSubmitted).Error
	})
	if err != nil {
		if errors.Is(err, ErrNoActiveRound) {
			return nil, ErrNoActiveRound
		}
		return nil, fmt.Errorf("end round: %w", err)
	}

	logger.Info("round.ended", "round", round.RoundNumber, "winner", winner.ID, "votes", winner.Votes)
	return &winner, nil
}

// Current returns the active round and its ideas ordered by votes, or a nil
// round when no round is open. Rounds past ends_at still show up here: expiry
// is display-only and closing is always an explicit operator action.
func (s *RoundService) Current(ctx context.Context) (*model.VotingRound, []model.Idea, error) {
	round, err := s.active(ctx)
	if errors.Is(err, ErrNoActiveRound) {
		return nil, []model.Idea{}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var ideas []model.Idea
	err = s.db.WithContext(ctx).
		Where("voting_round = ? AND status = ?", round.RoundNumber, model.IdeaStatusVoting).
		Order("votes DESC, created_at ASC").
		Find(&ideas).Error
	if err != nil {
		return nil, nil, fmt.Errorf("query round ideas: %w", err)
	}
	return round, ideas, nil
}

func (s *RoundService) active(ctx context.Context) (*model.VotingRound, error) {
	var round model.VotingRound
	err := s.db.WithContext(ctx).Where("status = ?", model.RoundStatusActive).First(&round).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNoActiveRound
	}
	if err != nil {
		return nil, fmt.Errorf("query active round: %w", err)
	}
	return &round, nil
}
