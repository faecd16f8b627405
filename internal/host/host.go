package host

import (
	"context"
	"fmt"
	"time"

	"dota-review-tracker/internal/domain"
)

// Info categories pushed by the runtime.
const (
	CategoryRoster    = "roster"
	CategoryMatchInfo = "match_info"
	CategoryMe        = "me"
)

// Event names.
const (
	EventMatchStateChanged = "match_state_changed"
	EventMatchEnded        = "match_ended"
)

// Match states the controller reacts to. Other states are forwarded as-is.
const (
	StateStrategyTime = "DOTA_GAMERULES_STATE_STRATEGY_TIME"
	StateTeamShowcase = "DOTA_GAMERULES_STATE_TEAM_SHOWCASE"
	StatePostGame     = "DOTA_GAMERULES_STATE_POST_GAME"
)

// Host is the game runtime capability. The connected variant is Bridge, the
// disconnected one is Simulated.
type Host interface {
	// Available reports whether the runtime is present.
	Available() bool
	// Run delivers notifications to sink until ctx is done.
	Run(ctx context.Context, sink Sink) error
}

type Sink interface {
	HandleInfo(update InfoUpdate) error
	HandleEvent(event Event) error
}

// Identity is the local user as reported by the runtime.
type Identity struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

type InfoUpdate struct {
	Category  string               `json:"category"`
	Roster    []domain.RosterEntry `json:"roster,omitempty"`
	MatchInfo *domain.MatchInfo    `json:"match_info,omitempty"`
	Me        *Identity            `json:"me,omitempty"`
}

func (u InfoUpdate) Validate() error {
	switch u.Category {
	case CategoryRoster:
		return nil
	case CategoryMatchInfo:
		if u.MatchInfo == nil {
			return fmt.Errorf("match_info update without payload")
		}
	case CategoryMe:
		if u.Me == nil || u.Me.AccountID == "" {
			return fmt.Errorf("me update without account id")
		}
	default:
		return fmt.Errorf("unknown info category %q", u.Category)
	}
	return nil
}

type Event struct {
	Name       string    `json:"name"`
	MatchState string    `json:"match_state,omitempty"`
	Winner     string    `json:"winner,omitempty"` // "radiant" or "dire"
	ReceivedAt time.Time `json:"-"`
}

func (e Event) Validate() error {
	switch e.Name {
	case EventMatchStateChanged:
		if e.MatchState == "" {
			return fmt.Errorf("match_state_changed without state")
		}
	case EventMatchEnded:
	default:
		return fmt.Errorf("unknown event %q", e.Name)
	}
	return nil
}

// Snapshot is the last-known value of every info category plus the latest
// match state and winner.
type Snapshot struct {
	Roster    []domain.RosterEntry `json:"roster"`
	MatchInfo domain.MatchInfo     `json:"match_info"`
	Me        Identity             `json:"me"`
	State     string               `json:"state"`
	Winner    string               `json:"winner"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// LocalTeam is the side the local user plays on, or "" when unknown.
func (s Snapshot) LocalTeam() string {
	for _, p := range s.Roster {
		if p.AccountID == s.Me.AccountID {
			return p.Team
		}
	}
	return ""
}
