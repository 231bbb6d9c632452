package service

import "errors"

// Service errors are sentinels so handlers can map them to status codes with
// errors.Is regardless of the wrapping detail text.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrIdeaNotVotable = errors.New("idea not in a voting round")
	ErrRoundActive    = errors.New("a voting round is already active")
	ErrNoActiveRound  = errors.New("no active voting round")
	ErrNoIdeasInRound = errors.New("no ideas in this round")
	ErrTokenNotMinted = errors.New("product has no token mint address")
)
