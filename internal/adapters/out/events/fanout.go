// Package events combines the configured EventPublishers into one.
package events

import (
	"context"
	"errors"
	"fmt"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

var (
	_ ports.EventPublisher = Fanout{}
	_ ports.EventPublisher = Noop{}
)

// Named labels a publisher in Fanout errors.
type Named struct {
	Name      string
	Publisher ports.EventPublisher
}

// Fanout hands every batch to each publisher in order. A failing publisher
// does not stop the others; their errors are joined.
type Fanout struct {
	publishers []Named
}

// NewFanout skips entries with a nil publisher, so optional sinks can be
// passed unconditionally.
func NewFanout(publishers ...Named) Fanout {
	f := Fanout{}
	for _, p := range publishers {
		if p.Publisher != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// Publish hands events to every publisher and joins their errors.
func (f Fanout) Publish(ctx context.Context, events ...parcel.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}
	var errList []error
	for _, p := range f.publishers {
		if err := p.Publisher.Publish(ctx, events...); err != nil {
			errList = append(errList, fmt.Errorf("%s: %w", p.Name, err))
		}
	}
	return errors.Join(errList...)
}

// Len reports how many publishers are wired.
func (f Fanout) Len() int {
	return len(f.publishers)
}

// Noop discards events.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, ...parcel.StatusChanged) error {
	return nil
}
