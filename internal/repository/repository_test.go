package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"dota-review-tracker/internal/database"
	"dota-review-tracker/internal/db"
	"dota-review-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	sqlDB   *sql.DB
	players *PlayerRepository
	matches *MatchRepository
	reviews *ReviewRepository
	data    *DataRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "reviews.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	logger := zerolog.Nop()
	return testRepos{
		sqlDB:   sqlDB,
		players: NewPlayerRepository(sqlDB, queries, logger),
		matches: NewMatchRepository(sqlDB, queries, logger),
		reviews: NewReviewRepository(sqlDB, queries, logger),
		data:    NewDataRepository(sqlDB, queries, logger),
	}
}

var t0 = time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)

func testMatch(id string) *domain.Match {
	return &domain.Match{
		MatchID:         id,
		GameMode:        "ranked",
		StartedAt:       t0,
		EndedAt:         t0.Add(40 * time.Minute),
		DurationSeconds: 2400,
		Outcome:         domain.OutcomeWin,
		LocalTeam:       domain.TeamRadiant,
		CreatedAt:       t0.Add(41 * time.Minute),
	}
}

func testParticipants(matchID string, ids ...string) []domain.MatchParticipant {
	out := make([]domain.MatchParticipant, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.MatchParticipant{
			MatchID:   matchID,
			AccountID: id,
			Name:      "name-" + id,
			Hero:      "npc_dota_hero_axe",
			Team:      domain.TeamRadiant,
			Kills:     i,
			Deaths:    1,
			Assists:   2,
			Level:     25,
		})
	}
	return out
}

func TestPlayerRepository(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	t.Run("missing player", func(t *testing.T) {
		_, err := r.players.Get(ctx, "404")
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("create starts empty", func(t *testing.T) {
		require.NoError(t, r.players.Create(ctx, "1", "Alpha", t0))

		p, err := r.players.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Alpha", p.Name)
		assert.Empty(t, p.NameHistory)
		assert.Equal(t, 0, p.ReviewCount)
		assert.True(t, p.FirstSeen.Equal(t0))
		assert.True(t, p.LastSeen.Equal(t0))
	})

	t.Run("update seen stores sorted history", func(t *testing.T) {
		later := t0.Add(time.Hour)
		require.NoError(t, r.players.UpdateSeen(ctx, "1", "Gamma", []string{"Beta", "Alpha", "Beta"}, later))

		p, err := r.players.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Gamma", p.Name)
		assert.Equal(t, []string{"Alpha", "Beta"}, p.NameHistory)
		assert.True(t, p.FirstSeen.Equal(t0))
		assert.True(t, p.LastSeen.Equal(later))
	})

	t.Run("search covers prior names", func(t *testing.T) {
		require.NoError(t, r.players.Create(ctx, "2", "Zed", t0))

		found, err := r.players.Search(ctx, "alph", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "1", found[0].AccountID)

		found, err = r.players.Search(ctx, "Ze", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "2", found[0].AccountID)
	})

	t.Run("search is literal", func(t *testing.T) {
		require.NoError(t, r.players.Create(ctx, "3", "mid_or_feed", t0))

		found, err := r.players.Search(ctx, "_", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "3", found[0].AccountID)

		for _, q := range []string{"%", "[", `"`, `\`} {
			found, err = r.players.Search(ctx, q, 10)
			require.NoError(t, err)
			assert.Empty(t, found, "query %q", q)
		}

		// history entries are matched one by one, not as JSON text
		found, err = r.players.Search(ctx, `Alpha","Beta`, 10)
		require.NoError(t, err)
		assert.Empty(t, found)

		found, err = r.players.Search(ctx, "bet", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "1", found[0].AccountID)
	})

	t.Run("rating cache", func(t *testing.T) {
		require.NoError(t, r.players.UpdateRating(ctx, "2", domain.RatingSummary{
			HasHistory:   true,
			AverageScore: 4,
			Count:        3,
			LastScore:    4,
			LastComment:  "solid",
		}))

		p, err := r.players.Get(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, 4.0, p.AverageScore)
		assert.Equal(t, 3, p.ReviewCount)
		assert.Equal(t, "solid", p.LastComment)
	})
}

func TestMatchRepository(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	created, err := r.matches.Record(ctx, testMatch("m1"), testParticipants("m1", "1", "2"))
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("second record is a no-op", func(t *testing.T) {
		changed := testMatch("m1")
		changed.Outcome = domain.OutcomeLose

		created, err := r.matches.Record(ctx, changed, testParticipants("m1", "3"))
		require.NoError(t, err)
		assert.False(t, created)

		got, err := r.matches.GetWithParticipants(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeWin, got.Match.Outcome)
		assert.Len(t, got.Participants, 2)
	})

	t.Run("participant lookup", func(t *testing.T) {
		mp, err := r.matches.GetParticipant(ctx, "m1", "2")
		require.NoError(t, err)
		assert.Equal(t, "name-2", mp.Name)

		_, err = r.matches.GetParticipant(ctx, "m1", "9")
		require.ErrorIs(t, err, domain.ErrPlayerNotFound)
	})

	t.Run("missing match", func(t *testing.T) {
		_, err := r.matches.Get(ctx, "nope")
		require.ErrorIs(t, err, domain.ErrMatchNotFound)
	})

	t.Run("list by player", func(t *testing.T) {
		m2 := testMatch("m2")
		m2.StartedAt = t0.Add(2 * time.Hour)
		_, err := r.matches.Record(ctx, m2, testParticipants("m2", "2"))
		require.NoError(t, err)

		matches, err := r.matches.ListByPlayer(ctx, "2", 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "m2", matches[0].MatchID)

		matches, err = r.matches.ListByPlayer(ctx, "1", 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)

		recent, err := r.matches.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "m2", recent[0].MatchID)
	})
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	for _, id := range []string{"m1", "m2", "m3"} {
		_, err := r.matches.Record(ctx, testMatch(id), testParticipants(id, "1", "2"))
		require.NoError(t, err)
	}

	for i, matchID := range []string{"m1", "m2", "m3"} {
		review := &domain.Review{
			MatchID:    matchID,
			SubjectID:  "2",
			ReviewerID: "1",
			Score:      5 - i,
			CreatedAt:  t0,
		}
		require.NoError(t, r.reviews.Insert(ctx, review))
		assert.NotEmpty(t, review.ID)
	}

	t.Run("duplicate triple", func(t *testing.T) {
		err := r.reviews.Insert(ctx, &domain.Review{
			MatchID:    "m1",
			SubjectID:  "2",
			ReviewerID: "1",
			Score:      1,
			CreatedAt:  t0,
		})
		require.ErrorIs(t, err, domain.ErrDuplicateReview)
	})

	t.Run("insertion order", func(t *testing.T) {
		reviews, err := r.reviews.ListBySubjectReviewer(ctx, "2", "1")
		require.NoError(t, err)
		require.Len(t, reviews, 3)
		assert.Equal(t, []int{5, 4, 3}, []int{reviews[0].Score, reviews[1].Score, reviews[2].Score})

		newest, err := r.reviews.ListBySubject(ctx, "2")
		require.NoError(t, err)
		require.Len(t, newest, 3)
		assert.Equal(t, "m3", newest[0].MatchID)
	})

	t.Run("by match", func(t *testing.T) {
		reviews, err := r.reviews.ListByMatch(ctx, "m2")
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, 4, reviews[0].Score)
	})

	t.Run("unknown match violates foreign key", func(t *testing.T) {
		err := r.reviews.Insert(ctx, &domain.Review{
			MatchID:    "ghost",
			SubjectID:  "2",
			ReviewerID: "1",
			Score:      3,
			CreatedAt:  t0,
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDuplicateReview)
	})
}

func TestDataRepository(t *testing.T) {
	ctx := context.Background()
	src := newTestRepos(t)

	_, err := src.matches.Record(ctx, testMatch("m1"), testParticipants("m1", "1", "2"))
	require.NoError(t, err)
	require.NoError(t, src.players.Create(ctx, "2", "Beta", t0))
	require.NoError(t, src.players.UpdateSeen(ctx, "2", "Gamma", []string{"Beta"}, t0.Add(time.Minute)))
	require.NoError(t, src.reviews.Insert(ctx, &domain.Review{
		MatchID: "m1", SubjectID: "2", ReviewerID: "1", Score: 4, Comment: "ok", CreatedAt: t0,
	}))

	dump, err := src.data.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, dump.Matches, 1)
	assert.Len(t, dump.Players, 1)
	assert.Len(t, dump.Participants, 2)
	assert.Len(t, dump.Reviews, 1)

	t.Run("restore into empty store round-trips", func(t *testing.T) {
		dst := newTestRepos(t)

		stats, err := dst.data.Restore(ctx, dump)
		require.NoError(t, err)
		assert.Equal(t, ImportStats{Matches: 1, Players: 1, Participants: 2, Reviews: 1}, stats)

		again, err := dst.data.Dump(ctx)
		require.NoError(t, err)
		assert.Equal(t, dump, again)
	})

	t.Run("bad records are skipped", func(t *testing.T) {
		dst := newTestRepos(t)

		broken := *dump
		broken.Participants = append([]domain.MatchParticipant{{MatchID: "ghost", AccountID: "7"}}, dump.Participants...)

		stats, err := dst.data.Restore(ctx, &broken)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Skipped)
		assert.Equal(t, 2, stats.Participants)
	})

	t.Run("wipe", func(t *testing.T) {
		require.NoError(t, src.data.Wipe(ctx))

		empty, err := src.data.Dump(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty.Matches)
		assert.Empty(t, empty.Players)
		assert.Empty(t, empty.Participants)
		assert.Empty(t, empty.Reviews)
		assert.True(t, src.data.Available(ctx))
	})
}

func TestMatchFinalize(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t)

	pending := testMatch("m1")
	pending.Outcome = domain.OutcomeUnknown
	pending.EndedAt = pending.StartedAt
	pending.DurationSeconds = 0
	_, err := r.matches.Record(ctx, pending, nil)
	require.NoError(t, err)

	end := t0.Add(35 * time.Minute)
	changed, err := r.matches.Finalize(ctx, "m1", domain.OutcomeLose, end, 2100)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = r.matches.Finalize(ctx, "m1", domain.OutcomeWin, end, 2100)
	require.NoError(t, err)
	assert.False(t, changed)

	m, err := r.matches.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLose, m.Outcome)
	assert.Equal(t, 2100, m.DurationSeconds)
	assert.True(t, m.EndedAt.Equal(end))
}
