package memory

import (
	"context"
	"iter"

	"github.com/google/uuid"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	evterrors "github.com/radu-bors/Clique-backend/internal/domain/event/errors"
)

// EventRepository implements the event repository contract.
type EventRepository struct {
	store *Store
}

func (r *EventRepository) Create(ctx context.Context, event *evtent.Event) error {
	return r.store.transaction(func(t *tables) error {
		if _, exists := t.events[event.EventID]; exists {
			return evterrors.ErrEventAlreadyExists
		}
		t.events[event.EventID] = *event
		t.eventOrder = append(t.eventOrder, event.EventID)
		return nil
	})
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*evtent.Event, error) {
	var (
		event evtent.Event
		ok    bool
	)
	r.store.read(func(t *tables) {
		event, ok = t.events[id]
	})
	if !ok {
		return nil, evterrors.ErrEventNotFound
	}
	return &event, nil
}

func (r *EventRepository) Close(ctx context.Context, id uuid.UUID) (bool, error) {
	changed := false
	err := r.store.transaction(func(t *tables) error {
		event, ok := t.events[id]
		if !ok {
			return evterrors.ErrEventNotFound
		}
		if event.IsOpen {
			event.IsOpen = false
			t.events[id] = event
			changed = true
		}
		return nil
	})
	return changed, err
}

// StreamOpen snapshots the open events when ranged and yields those q accepts.
func (r *EventRepository) StreamOpen(ctx context.Context, q evtent.OpenQuery) iter.Seq2[evtent.Event, error] {
	return func(yield func(evtent.Event, error) bool) {
		var snapshot []evtent.Event
		r.store.read(func(t *tables) {
			for _, id := range t.eventOrder {
				if e := t.events[id]; e.IsOpen {
					snapshot = append(snapshot, e)
				}
			}
		})

		for _, e := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(evtent.Event{}, err)
				return
			}
			if !q.Matches(e) {
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
