package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"dota-review-tracker/internal/constants"
	"dota-review-tracker/internal/domain"
	"dota-review-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Renamed int `json:"renamed"`
	Failed  int `json:"failed"`
}

type SyncService struct {
	players *repository.PlayerRepository
	logger  zerolog.Logger
}

func NewSyncService(players *repository.PlayerRepository, logger zerolog.Logger) *SyncService {
	return &SyncService{players: players, logger: logger}
}

// SyncRoster reconciles a roster snapshot with the stored players. The local
// player and entries without an account id are skipped. A failing entry is
// logged and counted and does not stop the others.
func (s *SyncService) SyncRoster(ctx context.Context, roster []domain.RosterEntry, localID string) SyncResult {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var result SyncResult
	now := time.Now().UTC()

	for _, entry := range roster {
		if entry.AccountID == "" || entry.AccountID == localID {
			continue
		}

		created, renamed, err := s.syncPlayer(ctx, entry, now)
		if err != nil {
			s.logger.Warn().Err(err).Str("account_id", entry.AccountID).Msg("failed to sync player")
			result.Failed++
			continue
		}

		switch {
		case created:
			result.Created++
		case renamed:
			result.Renamed++
		default:
			result.Updated++
		}
	}

	s.logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("renamed", result.Renamed).
		Int("failed", result.Failed).
		Msg("roster synced")
	return result
}

func (s *SyncService) syncPlayer(ctx context.Context, entry domain.RosterEntry, now time.Time) (created, renamed bool, err error) {
	player, err := s.players.Get(ctx, entry.AccountID)
	if errors.Is(err, domain.ErrPlayerNotFound) {
		if err := s.players.Create(ctx, entry.AccountID, entry.Name, now); err != nil {
			return false, false, fmt.Errorf("failed to create player: %w", err)
		}
		return true, false, nil
	}
	if err != nil {
		return false, false, err
	}

	name := player.Name
	history := player.NameHistory
	if entry.Name != "" && entry.Name != player.Name {
		history = nextHistory(player.NameHistory, player.Name, entry.Name)
		name = entry.Name
		renamed = true

		s.logger.Debug().
			Str("account_id", entry.AccountID).
			Str("from", player.Name).
			Str("to", entry.Name).
			Msg("player renamed")
	}

	if err := s.players.UpdateSeen(ctx, entry.AccountID, name, history, now); err != nil {
		return false, false, fmt.Errorf("failed to update player: %w", err)
	}
	return false, renamed, nil
}

// nextHistory adds the previous name and removes the current one, so the
// history never contains the name the player is using now.
func nextHistory(history []string, previous, current string) []string {
	next := repository.NormalizeNames(append(slices.Clone(history), previous))
	return slices.DeleteFunc(next, func(n string) bool { return n == current })
}
