package domain

import (
	"time"
)

const (
	OutcomeWin     = "win"
	OutcomeLose    = "lose"
	OutcomeUnknown = "unknown"
)

const (
	TeamRadiant = "radiant"
	TeamDire    = "dire"
)

type Player struct {
	AccountID    string    `json:"account_id"`
	Name         string    `json:"name"`
	NameHistory  []string  `json:"name_history"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
	AverageScore float64   `json:"average_score"`
	ReviewCount  int       `json:"review_count"`
	LastScore    int       `json:"last_score"`
	LastComment  string    `json:"last_comment"`
}

type Match struct {
	MatchID         string    `json:"match_id"`
	GameMode        string    `json:"game_mode"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Outcome         string    `json:"outcome"`    // "win", "lose", "unknown"
	LocalTeam       string    `json:"local_team"` // "radiant", "dire" or ""
	CreatedAt       time.Time `json:"created_at"`
}

type MatchParticipant struct {
	MatchID   string `json:"match_id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Hero      string `json:"hero"`
	Team      string `json:"team"`
	Kills     int    `json:"kills"`
	Deaths    int    `json:"deaths"`
	Assists   int    `json:"assists"`
	Level     int    `json:"level"`
}

type Review struct {
	ID         string    `json:"id"` // nanoid
	MatchID    string    `json:"match_id"`
	SubjectID  string    `json:"subject_id"`
	ReviewerID string    `json:"reviewer_id"`
	Score      int       `json:"score"` // 1-5
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary is what one reviewer has said about one subject so far.
type RatingSummary struct {
	SubjectID    string  `json:"subject_id"`
	ReviewerID   string  `json:"reviewer_id"`
	HasHistory   bool    `json:"has_history"`
	AverageScore float64 `json:"average_score"`
	Count        int     `json:"count"`
	LastScore    int     `json:"last_score"`
	LastComment  string  `json:"last_comment"`
}

// RosterEntry is one player of a roster snapshot reported by the host.
type RosterEntry struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Hero      string `json:"hero"`
	Kills     int    `json:"kills"`
	Deaths    int    `json:"deaths"`
	Assists   int    `json:"assists"`
	Level     int    `json:"level"`
}

// MatchInfo is the host's last-known description of the running match.
type MatchInfo struct {
	MatchID   string    `json:"match_id"`
	GameMode  string    `json:"game_mode"`
	StartedAt time.Time `json:"started_at"`
}

// Dataset is the full content of the local store.
type Dataset struct {
	Matches      []Match            `json:"matches"`
	Players      []Player           `json:"players"`
	Participants []MatchParticipant `json:"participants"`
	Reviews      []Review           `json:"reviews"`
}
