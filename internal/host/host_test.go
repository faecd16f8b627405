package host

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"dota-review-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type received struct {
	tag   string
	event Event
	snap  Snapshot
}

func startAdapter(t *testing.T, h Host) (*Adapter, <-chan received) {
	t.Helper()

	adapter := NewAdapter(h, zerolog.Nop())
	out := make(chan received, 16)
	adapter.AddListener(func(_ context.Context, ev Event, snap Snapshot) {
		out <- received{tag: "first", event: ev, snap: snap}
	})
	adapter.AddListener(func(_ context.Context, ev Event, snap Snapshot) {
		out <- received{tag: "second", event: ev, snap: snap}
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- adapter.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
	return adapter, out
}

func next(t *testing.T, ch <-chan received) received {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
		return received{}
	}
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulated(true)
	adapter, out := startAdapter(t, sim)

	roster := []domain.RosterEntry{
		{AccountID: "1", Name: "Me", Team: domain.TeamDire},
		{AccountID: "2", Name: "Ally", Team: domain.TeamDire},
	}
	require.NoError(t, sim.Info(ctx, InfoUpdate{Category: CategoryRoster, Roster: roster}))
	require.NoError(t, sim.Info(ctx, InfoUpdate{Category: CategoryMe, Me: &Identity{AccountID: "1", Name: "Me"}}))
	require.NoError(t, sim.Info(ctx, InfoUpdate{Category: CategoryMatchInfo, MatchInfo: &domain.MatchInfo{MatchID: "m1", GameMode: "ranked"}}))

	snap := adapter.Snapshot()
	assert.Equal(t, roster, snap.Roster)
	assert.Equal(t, "1", snap.Me.AccountID)
	assert.Equal(t, "m1", snap.MatchInfo.MatchID)
	assert.Equal(t, domain.TeamDire, snap.LocalTeam())
	assert.True(t, adapter.Available())

	t.Run("snapshot is a copy", func(t *testing.T) {
		s := adapter.Snapshot()
		s.Roster[0].Name = "changed"
		assert.Equal(t, "Me", adapter.Snapshot().Roster[0].Name)
	})

	t.Run("events reach every listener in order", func(t *testing.T) {
		require.NoError(t, sim.Emit(ctx, Event{Name: EventMatchStateChanged, MatchState: StateStrategyTime}))
		require.NoError(t, sim.Emit(ctx, Event{Name: EventMatchEnded, Winner: domain.TeamDire}))

		got := []received{next(t, out), next(t, out), next(t, out), next(t, out)}
		assert.Equal(t, "first", got[0].tag)
		assert.Equal(t, "second", got[1].tag)
		assert.Equal(t, StateStrategyTime, got[0].event.MatchState)
		assert.Equal(t, "m1", got[0].snap.MatchInfo.MatchID)
		assert.False(t, got[0].event.ReceivedAt.IsZero())

		assert.Equal(t, EventMatchEnded, got[2].event.Name)
		assert.Equal(t, domain.TeamDire, got[3].snap.Winner)
		assert.Equal(t, StateStrategyTime, got[3].snap.State)
	})

	t.Run("new match clears winner", func(t *testing.T) {
		require.NoError(t, sim.Info(ctx, InfoUpdate{Category: CategoryMatchInfo, MatchInfo: &domain.MatchInfo{MatchID: "m2"}}))
		assert.Empty(t, adapter.Snapshot().Winner)
	})

	t.Run("invalid notifications are rejected", func(t *testing.T) {
		assert.Error(t, sim.Info(ctx, InfoUpdate{Category: "weather"}))
		assert.Error(t, sim.Info(ctx, InfoUpdate{Category: CategoryMe}))
		assert.Error(t, sim.Emit(ctx, Event{Name: EventMatchStateChanged}))
		assert.Error(t, sim.Emit(ctx, Event{Name: "kill_streak"}))
	})
}

func TestSimulatedUnavailable(t *testing.T) {
	sim := NewSimulated(false)
	adapter := NewAdapter(sim, zerolog.Nop())

	assert.False(t, adapter.Available())
	require.ErrorIs(t, adapter.Run(context.Background()), domain.ErrHostUnavailable)
	require.ErrorIs(t, sim.Emit(context.Background(), Event{Name: EventMatchEnded}), domain.ErrHostUnavailable)
}

func TestBridge(t *testing.T) {
	sim := NewSimulated(true)
	adapter, out := startAdapter(t, sim)

	bridge := &Bridge{addr: "in-memory", logger: zerolog.Nop()}
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: bridge.Handler(adapter)}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { srv.Shutdown() }) //nolint:errcheck

	client := NewBridgeClient("bridge.local")
	client.client.Dial = func(addr string) (net.Conn, error) { return ln.Dial() }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.False(t, bridge.Available())
	require.NoError(t, client.Health(ctx))
	assert.True(t, bridge.Available())

	t.Run("replay script", func(t *testing.T) {
		script := `
{"info": {"category": "me", "me": {"account_id": "1", "name": "Me"}}}
{"info": {"category": "roster", "roster": [{"account_id": "1", "name": "Me", "team": "radiant"}, {"account_id": "2", "name": "Foe", "team": "dire"}]}}
{"event": {"name": "match_state_changed", "match_state": "DOTA_GAMERULES_STATE_STRATEGY_TIME"}}
`
		steps, err := ReadScript(strings.NewReader(script))
		require.NoError(t, err)
		require.Len(t, steps, 3)
		require.NoError(t, client.Replay(ctx, steps))

		got := next(t, out)
		assert.Equal(t, StateStrategyTime, got.event.MatchState)
		assert.Len(t, got.snap.Roster, 2)
		assert.Equal(t, domain.TeamRadiant, got.snap.LocalTeam())
		next(t, out)
	})

	t.Run("rejected payload", func(t *testing.T) {
		err := client.SendInfo(ctx, InfoUpdate{Category: "weather"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
	})

	t.Run("malformed script", func(t *testing.T) {
		_, err := ReadScript(strings.NewReader(`{"delay_ms": 5}`))
		require.Error(t, err)
	})
}

func TestBridgeRoutes(t *testing.T) {
	bridge := &Bridge{logger: zerolog.Nop()}
	handler := bridge.Handler(NewAdapter(NewSimulated(true), zerolog.Nop()))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health", fasthttp.MethodGet, "/health", "", fasthttp.StatusOK},
		{"info accepted", fasthttp.MethodPost, "/info", `{"category":"roster","roster":[]}`, fasthttp.StatusAccepted},
		{"malformed body", fasthttp.MethodPost, "/event", `{`, fasthttp.StatusBadRequest},
		{"wrong method", fasthttp.MethodGet, "/event", "", fasthttp.StatusMethodNotAllowed},
		{"unknown path", fasthttp.MethodGet, "/nope", "", fasthttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			ctx.Request.Header.SetMethod(tt.method)
			ctx.Request.SetRequestURI(tt.path)
			ctx.Request.SetBodyString(tt.body)

			handler(&ctx)
			assert.Equal(t, tt.status, ctx.Response.StatusCode())
		})
	}
}
