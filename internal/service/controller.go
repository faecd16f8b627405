package service

import (
	"context"
	"sync"
	"time"

	"dota-review-tracker/internal/config"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/host"
	"dota-review-tracker/internal/messaging"

	"github.com/rs/zerolog"
)

// Publisher delivers inter-window messages.
type Publisher interface {
	Publish(window, kind string, payload any) error
}

type RosterData struct {
	MatchID        string               `json:"match_id"`
	LocalAccountID string               `json:"local_account_id"`
	Roster         []domain.RosterEntry `json:"roster"`
	Sync           SyncResult           `json:"sync"`
}

type StrategyBoardData struct {
	MatchID string       `json:"match_id"`
	Entries []BoardEntry `json:"entries"`
}

// ControllerStatus is the controller's view of the current session.
type ControllerStatus struct {
	State      string     `json:"state"`
	MatchID    string     `json:"match_id"`
	LastSync   SyncResult `json:"last_sync"`
	LastError  string     `json:"last_error,omitempty"`
	LastEvent  time.Time  `json:"last_event"`
	Recorded   int        `json:"recorded"`
	LocalKnown bool       `json:"local_known"`
}

// GameController turns match-state transitions into sync, recording and
// window messages. It runs on the host adapter's dispatch goroutine.
type GameController struct {
	syncSvc         *SyncService
	reviewSvc       *ReviewService
	matchSvc        *MatchService
	publisher       Publisher
	fallbackLocalID string
	logger          zerolog.Logger

	mu     sync.RWMutex
	status ControllerStatus
}

func NewGameController(cfg *config.Config, syncSvc *SyncService, reviewSvc *ReviewService, matchSvc *MatchService, publisher Publisher, logger zerolog.Logger) *GameController {
	return &GameController{
		syncSvc:         syncSvc,
		reviewSvc:       reviewSvc,
		matchSvc:        matchSvc,
		publisher:       publisher,
		fallbackLocalID: cfg.LocalAccountID,
		logger:          logger.With().Str("component", "controller").Logger(),
	}
}

func (c *GameController) Status() ControllerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// LocalID is the local user's account id, from the host or the configured
// fallback.
func (c *GameController) LocalID(snap host.Snapshot) string {
	if snap.Me.AccountID != "" {
		return snap.Me.AccountID
	}
	return c.fallbackLocalID
}

// HandleEvent is registered as a host.Listener.
func (c *GameController) HandleEvent(ctx context.Context, event host.Event, snap host.Snapshot) {
	c.mu.Lock()
	c.status.LastEvent = event.ReceivedAt
	c.status.MatchID = snap.MatchInfo.MatchID
	c.status.LocalKnown = c.LocalID(snap) != ""
	if event.Name == host.EventMatchStateChanged {
		c.status.State = event.MatchState
	}
	c.mu.Unlock()

	switch event.Name {
	case host.EventMatchStateChanged:
		switch event.MatchState {
		case host.StateStrategyTime:
			c.onStrategyTime(ctx, snap)
		case host.StateTeamShowcase:
			c.onTeamShowcase(ctx, event, snap)
		case host.StatePostGame:
			c.publish(messaging.WindowReview, messaging.TypeModeSwitch, messaging.ModeSwitch{Mode: messaging.ModeHidden})
		default:
			c.logger.Debug().Str("state", event.MatchState).Msg("ignoring match state")
		}
	case host.EventMatchEnded:
		c.onMatchEnded(ctx, event, snap)
	}
}

func (c *GameController) onStrategyTime(ctx context.Context, snap host.Snapshot) {
	localID := c.LocalID(snap)
	result := c.syncSvc.SyncRoster(ctx, snap.Roster, localID)

	c.mu.Lock()
	c.status.LastSync = result
	c.mu.Unlock()

	c.publish(messaging.WindowReview, messaging.TypeRosterData, RosterData{
		MatchID:        snap.MatchInfo.MatchID,
		LocalAccountID: localID,
		Roster:         snap.Roster,
		Sync:           result,
	})

	board, err := c.reviewSvc.StrategyBoard(ctx, snap.Roster, localID)
	if err != nil {
		c.fail(err, "failed to build strategy board")
		return
	}
	c.publish(messaging.WindowReview, messaging.TypeStrategyBoard, StrategyBoardData{
		MatchID: snap.MatchInfo.MatchID,
		Entries: board,
	})
}

func (c *GameController) onTeamShowcase(ctx context.Context, event host.Event, snap host.Snapshot) {
	match, created, err := c.matchSvc.RecordFromSnapshot(ctx, snap, event.ReceivedAt)
	if err != nil {
		c.fail(err, "failed to record match")
		return
	}
	if created {
		c.mu.Lock()
		c.status.Recorded++
		c.mu.Unlock()
	}

	c.publish(messaging.WindowReview, messaging.TypeModeSwitch, messaging.ModeSwitch{Mode: messaging.ModeReview})
	c.publish("", messaging.TypeMatchID, messaging.MatchIDPayload{MatchID: match.MatchID})
}

func (c *GameController) onMatchEnded(ctx context.Context, event host.Event, snap host.Snapshot) {
	if snap.MatchInfo.MatchID == "" {
		c.logger.Warn().Msg("match ended without match info")
		return
	}
	match, err := c.matchSvc.FinishFromSnapshot(ctx, snap, event.Winner, event.ReceivedAt)
	if err != nil {
		c.fail(err, "failed to finish match")
		return
	}
	c.publish(messaging.WindowRecord, messaging.TypeMatchID, messaging.MatchIDPayload{MatchID: match.MatchID})
}

func (c *GameController) publish(window, kind string, payload any) {
	if err := c.publisher.Publish(window, kind, payload); err != nil {
		c.logger.Warn().Err(err).Str("type", kind).Str("window", window).Msg("failed to publish message")
	}
}

func (c *GameController) fail(err error, msg string) {
	c.logger.Error().Err(err).Msg(msg)
	c.mu.Lock()
	c.status.LastError = err.Error()
	c.mu.Unlock()
}
