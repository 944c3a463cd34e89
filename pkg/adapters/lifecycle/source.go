// Package lifecycle exposes folio state changes as a lifecycle.Source so
// they can drive supervised consumers such as a live re-render.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

type stateSource struct {
	events <-chan core.Event
	filter func(core.Event) bool
	out    chan lifecycle.Event
}

// SourceOption configures a state source.
type SourceOption func(*stateSource)

// WithFilter drops events for which keep returns false.
func WithFilter(keep func(core.Event) bool) SourceOption {
	return func(s *stateSource) {
		s.filter = keep
	}
}

// NewSource creates a lifecycle.Source that emits folio state events.
// core.Event satisfies lifecycle.Event through its String method.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &stateSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *stateSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until the input closes or ctx is done, then closes
// the output.
func (s *stateSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.filter != nil && !s.filter(e) {
					continue
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
