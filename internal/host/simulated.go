package host

import (
	"context"

	"dota-review-tracker/internal/domain"
)

type delivery struct {
	deliver func(Sink) error
	reply   chan error
}

// Simulated is a host without a runtime behind it. Notifications are injected
// with Info and Emit and delivered by Run.
type Simulated struct {
	available bool
	inbox     chan delivery
}

func NewSimulated(available bool) *Simulated {
	return &Simulated{
		available: available,
		inbox:     make(chan delivery),
	}
}

func (s *Simulated) Available() bool {
	return s.available
}

func (s *Simulated) Run(ctx context.Context, sink Sink) error {
	if !s.available {
		return domain.ErrHostUnavailable
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-s.inbox:
			d.reply <- d.deliver(sink)
		}
	}
}

// Info blocks until Run has handed update to the sink and returns the sink's
// error.
func (s *Simulated) Info(ctx context.Context, update InfoUpdate) error {
	return s.send(ctx, func(sink Sink) error { return sink.HandleInfo(update) })
}

// Emit blocks until Run has handed event to the sink and returns the sink's
// error.
func (s *Simulated) Emit(ctx context.Context, event Event) error {
	return s.send(ctx, func(sink Sink) error { return sink.HandleEvent(event) })
}

func (s *Simulated) send(ctx context.Context, deliver func(Sink) error) error {
	if !s.available {
		return domain.ErrHostUnavailable
	}

	d := delivery{deliver: deliver, reply: make(chan error, 1)}
	select {
	case s.inbox <- d:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-d.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
