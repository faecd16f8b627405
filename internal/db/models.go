package db

import (
	"time"
)

type Match struct {
	MatchID         string
	GameMode        string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds int64
	Outcome         string
	LocalTeam       string
	CreatedAt       time.Time
}

type MatchParticipant struct {
	MatchID   string
	AccountID string
	Name      string
	Hero      string
	Team      string
	Kills     int64
	Deaths    int64
	Assists   int64
	Level     int64
}

type Player struct {
	AccountID    string
	Name         string
	NameHistory  string
	FirstSeen    time.Time
	LastSeen     time.Time
	AverageScore float64
	ReviewCount  int64
	LastScore    int64
	LastComment  string
}

type Review struct {
	ID         string
	MatchID    string
	SubjectID  string
	ReviewerID string
	Score      int64
	Comment    string
	CreatedAt  time.Time
}
