package model

import "time"

type SubmitIdeaRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Email         string `json:"email"`
	TwitterHandle string `json:"twitter_handle"`
}

type UpdateIdeaStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type StartRoundRequest struct {
	IdeaIDs []string `json:"idea_ids"`
}

type StartRoundResponse struct {
	RoundNumber int       `json:"round_number"`
	EndsAt      time.Time `json:"ends_at"`
}

type CurrentRoundResponse struct {
	Round *VotingRound `json:"round"`
	Ideas []Idea       `json:"ideas"`
}

type CreateProductRequest struct {
	IdeaID      string `json:"idea_id" binding:"required"`
	Description string `json:"description"`
	GithubURL   string `json:"github_url"`
	DemoURL     string `json:"demo_url"`
}

type LaunchTokenRequest struct {
	ProductID        string `json:"product_id" binding:"required"`
	TokenName        string `json:"token_name" binding:"required"`
	TokenTicker      string `json:"token_ticker" binding:"required"`
	TokenDescription string `json:"token_description"`
	TokenImage       string `json:"token_image"`
}

type FeeShareRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	CreatorWallet string `json:"creator_wallet" binding:"required"`
}

type StatsResponse struct {
	TotalProducts int64 `json:"total_products"`
	TotalIdeas    int64 `json:"total_ideas"`
	TotalVotes    int64 `json:"total_votes"`
	DayNumber     int   `json:"day_number"`
}
