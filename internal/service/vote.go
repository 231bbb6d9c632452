package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mad-factory/internal/logger"
	"mad-factory/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// VoteService counts one vote per voter identity per round. The database
// unique index on (voting_round, voter_identifier) is the authoritative
// guard; the lookups before insert and the optional redis cache only reject
// duplicates early.
type VoteService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVoteService(db *gorm.DB, rdb *redis.Client) *VoteService {
	return &VoteService{db: db, rdb: rdb}
}

func voteKey(round int, voter string) string {
	return fmt.Sprintf("vote:%d:%s", round, voter)
}

// Cast records a vote for ideaID by voterIdentifier. The vote row insert and
// the counter increment commit together; the increment is a single SQL
// expression so concurrent votes never lose updates.
func (s *VoteService) Cast(ctx context.Context, ideaID, voterIdentifier string) error {
	// Fast path: exact idea already voted by this identity.
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("idea_id = ? AND voter_identifier = ?", ideaID, voterIdentifier).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("query votes: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: you have already voted for this idea", ErrAlreadyVoted)
	}

	var idea model.Idea
	err = s.db.WithContext(ctx).First(&idea, "id = ?", ideaID).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%w: idea %s", ErrNotFound, ideaID)
	}
	if err != nil {
		return fmt.Errorf("query idea: %w", err)
	}
	if idea.Status != model.IdeaStatusVoting || idea.VotingRound == nil {
		return ErrIdeaNotVotable
	}
	round := *idea.VotingRound

	if s.cachedVote(ctx, round, voterIdentifier) {
		return fmt.Errorf("%w: you have already voted in this round", ErrAlreadyVoted)
	}

	// Round-wide check: one vote per identity across every idea in the round.
	err = s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("voting_round = ? AND voter_identifier = ?", round, voterIdentifier).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("query round votes: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: you have already voted in this round", ErrAlreadyVoted)
	}

	vote := model.Vote{
		ID:              uuid.NewString(),
		IdeaID:          ideaID,
		VotingRound:     round,
		VoterIdentifier: voterIdentifier,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return tx.Model(&model.Idea{}).Where("id = ?", ideaID).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a near-simultaneous duplicate from the same
		// identity; the unique index kept the count honest.
		return fmt.Errorf("%w: you have already voted in this round", ErrAlreadyVoted)
	}
	if err != nil {
		return fmt.Errorf("record vote: %w", err)
	}

	s.markVoted(ctx, round, voterIdentifier)
	logger.Info("vote.cast", "idea", ideaID, "round", round, "voter", voterIdentifier)
	return nil
}

// cachedVote checks the redis fast-reject marker. Redis being absent or down
// just means every duplicate reaches the database checks.
func (s *VoteService) cachedVote(ctx context.Context, round int, voter string) bool {
	if s.rdb == nil {
		return false
	}
	n, err := s.rdb.Exists(ctx, voteKey(round, voter)).Result()
	if err != nil {
		logger.Warn("vote.cache.check failed", "err", err)
		return false
	}
	return n > 0
}

func (s *VoteService) markVoted(ctx context.Context, round int, voter string) {
	if s.rdb == nil {
		return
	}
	// Rounds run for days; a generous TTL keeps keys from outliving interest.
	if err := s.rdb.SetNX(ctx, voteKey(round, voter), "1", 7*24*time.Hour).Err(); err != nil {
		logger.Warn("vote.cache.mark failed", "err", err)
	}
}
