// Package highlight fans consolidated selection changes out to subscribers.
package highlight

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nestorcad/viewercore/internal/selection"
	"github.com/nestorcad/viewercore/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/nestorcad/viewercore/internal/highlight"

// Subscriber receives every published highlight.
type Subscriber func(selection.Highlight)

// Bus delivers highlights synchronously, in publish order, to every
// subscriber. It also acts as the selection-changed notifier.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]Subscriber
	nextID int
	last   selection.Highlight

	published metric.Int64Counter
	entities  metric.Int64Histogram
}

var (
	_ selection.HighlightPublisher = (*Bus)(nil)
	_ selection.ChangeNotifier     = (*Bus)(nil)
)

// New creates a bus. Metrics go to the global OTel meter provider.
func New() (*Bus, error) {
	m := otel.Meter(instrumentationName)
	b := &Bus{subs: make(map[int]Subscriber)}

	var err error
	b.published, err = m.Int64Counter(
		"highlight.published",
		metric.WithDescription("Total highlight events published"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating published counter: %w", err)
	}
	b.entities, err = m.Int64Histogram(
		"highlight.entities",
		metric.WithDescription("Entities per highlight event"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entities histogram: %w", err)
	}
	return b, nil
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// PublishHighlight delivers h to every subscriber.
func (b *Bus) PublishHighlight(h selection.Highlight) {
	h.IDs = slices.Clone(h.IDs)

	b.mu.Lock()
	b.last = h
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, b.subs[id])
	}
	b.mu.Unlock()

	attrs := metric.WithAttributes(attribute.String("mode", string(h.Mode)))
	b.published.Add(context.Background(), 1, attrs)
	b.entities.Record(context.Background(), int64(len(h.IDs)), attrs)

	for _, fn := range subs {
		fn(h)
	}
}

// SelectionChanged records the final id list of a selection change.
func (b *Bus) SelectionChanged(ids []core.EntityID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last.IDs = slices.Clone(ids)
}

// Last returns the most recent highlight.
func (b *Bus) Last() selection.Highlight {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h := b.last
	h.IDs = slices.Clone(h.IDs)
	return h
}
