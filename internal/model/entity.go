package model

import "time"

const (
	IdeaStatusSubmitted = "submitted"
	IdeaStatusVoting    = "voting"
	IdeaStatusBuilding  = "building"
	IdeaStatusLive      = "live"
	IdeaStatusRejected  = "rejected"

	ProductStatusBuilding  = "building"
	ProductStatusLive      = "live"
	ProductStatusCompleted = "completed"

	RoundStatusActive = "active"
	RoundStatusEnded  = "ended"
)

// Categories is the closed set of idea categories accepted on submission.
var Categories = []string{
	"AI Tool",
	"Bot",
	"Dashboard",
	"Extension",
	"Script",
	"API Wrapper",
	"Discord Bot",
	"Telegram Bot",
	"Browser Extension",
	"Other",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidIdeaStatus(s string) bool {
	switch s {
	case IdeaStatusSubmitted, IdeaStatusVoting, IdeaStatusBuilding, IdeaStatusLive, IdeaStatusRejected:
		return true
	}
	return false
}

type Idea struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255" json:"name"`
	Description   string    `gorm:"size:255" json:"description"`
	Category      string    `gorm:"size:64" json:"category"`
	Email         string    `gorm:"size:255" json:"email"`
	TwitterHandle string    `gorm:"size:64" json:"twitter_handle"`
	Votes         int       `json:"votes"`
	Status        string    `gorm:"size:16;default:submitted;index" json:"status"`
	VotingRound   *int      `gorm:"index" json:"voting_round"`
	CreatedAt     time.Time `json:"created_at"`
}

// Vote is insert-only. The (voting_round, voter_identifier) unique index is
// the authoritative one-vote-per-round guarantee; application-level checks
// are a fast path in front of it.
type Vote struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	IdeaID          string    `gorm:"size:36;index" json:"idea_id"`
	VotingRound     int       `gorm:"uniqueIndex:uk_round_voter" json:"voting_round"`
	VoterIdentifier string    `gorm:"size:64;uniqueIndex:uk_round_voter" json:"voter_identifier"`
	CreatedAt       time.Time `json:"created_at"`
}

// VotingRound rows carry an Active sentinel: true while the round is open,
// NULL once ended. The unique index on it makes the database reject a second
// active round no matter how concurrent starts interleave.
type VotingRound struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	RoundNumber   int       `gorm:"uniqueIndex" json:"round_number"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Status        string    `gorm:"size:16" json:"status"`
	Active        *bool     `gorm:"uniqueIndex" json:"-"`
	WinningIdeaID *string   `gorm:"size:36" json:"winning_idea_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type Product struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	IdeaID      string     `gorm:"size:36;index" json:"idea_id"`
	Name        string     `gorm:"size:255" json:"name"`
	Description string     `gorm:"size:255" json:"description"`
	TokenTicker *string    `gorm:"size:16" json:"token_ticker"`
	TokenMint   *string    `gorm:"size:64" json:"token_mint"`
	BagsURL     *string    `gorm:"size:255" json:"bags_url"`
	GithubURL   *string    `gorm:"size:255" json:"github_url"`
	DemoURL     *string    `gorm:"size:255" json:"demo_url"`
	DayNumber   int        `json:"day_number"`
	FeesEarned  float64    `json:"fees_earned"`
	Volume      float64    `json:"volume"`
	Status      string     `gorm:"size:16;default:building" json:"status"`
	LaunchedAt  *time.Time `json:"launched_at"`
	CreatedAt   time.Time  `json:"created_at"`

	Idea *Idea `gorm:"foreignKey:IdeaID" json:"idea,omitempty"`
}

func (Idea) TableName() string        { return "ideas" }
func (Vote) TableName() string        { return "votes" }
func (VotingRound) TableName() string { return "voting_rounds" }
func (Product) TableName() string     { return "products" }
