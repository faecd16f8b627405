package host

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"dota-review-tracker/internal/config"
	"dota-review-tracker/internal/constants"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

// Bridge is the connected host. The overlay runtime posts info updates and
// events to it over loopback HTTP.
type Bridge struct {
	addr     string
	logger   zerolog.Logger
	lastSeen atomic.Int64 // unix nanos of the last runtime request
}

func NewBridge(cfg *config.Config, logger zerolog.Logger) *Bridge {
	return &Bridge{
		addr:   cfg.BridgeAddr,
		logger: logger.With().Str("component", "bridge").Logger(),
	}
}

// Available is true while the runtime has contacted the bridge within
// constants.HostTimeout.
func (b *Bridge) Available() bool {
	last := b.lastSeen.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) < constants.HostTimeout
}

func (b *Bridge) Run(ctx context.Context, sink Sink) error {
	srv := &fasthttp.Server{
		Handler:            b.Handler(sink),
		Name:               "dota-review-bridge",
		ReadTimeout:        constants.HostTimeout,
		WriteTimeout:       constants.HostTimeout,
		MaxRequestBodySize: constants.BridgeBodyLimit,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info().Str("addr", b.addr).Msg("bridge listening")
		if err := srv.ListenAndServe(b.addr); err != nil {
			return fmt.Errorf("bridge failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}

// Handler routes runtime requests to sink.
func (b *Bridge) Handler(sink Sink) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		b.lastSeen.Store(time.Now().UnixNano())

		path := string(ctx.Path())
		switch {
		case path == "/health" && ctx.IsGet():
			writeJSON(ctx, fasthttp.StatusOK, map[string]any{"status": "ok"})
		case path == "/info" && ctx.IsPost():
			var update InfoUpdate
			if !b.decode(ctx, &update) {
				return
			}
			b.deliver(ctx, sink.HandleInfo(update))
		case path == "/event" && ctx.IsPost():
			var event Event
			if !b.decode(ctx, &event) {
				return
			}
			event.ReceivedAt = time.Now().UTC()
			b.deliver(ctx, sink.HandleEvent(event))
		case path == "/health" || path == "/info" || path == "/event":
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found")
		}
	}
}

func (b *Bridge) decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		b.logger.Warn().Err(err).Str("path", string(ctx.Path())).Msg("malformed bridge payload")
		writeError(ctx, fasthttp.StatusBadRequest, "malformed payload")
		return false
	}
	return true
}

func (b *Bridge) deliver(ctx *fasthttp.RequestCtx, err error) {
	if err != nil {
		b.logger.Warn().Err(err).Str("path", string(ctx.Path())).Msg("rejected bridge payload")
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusAccepted, map[string]any{"status": "accepted"})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		ctx.Error("encode failed", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]any{"error": msg})
}
