package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/models"
)

// EventRepository owns the canonical in-memory event list for the active
// scope. A fetch replaces the whole list atomically; there is no partial
// patching, and any mutation elsewhere is picked up by re-fetching.
//
// Overlapping fetches are not deduplicated. Each request carries a
// monotonic sequence number and a completion is applied only if it is
// newer than whatever is currently applied and its scope still matches
// the active one; anything else is discarded as a no-op. That closes the
// last-writer-wins race a naive implementation would have.
type EventRepository struct {
	transport Transport

	mu           sync.Mutex
	scope        Scope
	events       []models.Event
	appliedScope Scope
	inFlight     int
	nextSeq      uint64
	applied      uint64
}

// NewEventRepository creates a repository bound to a transport.
func NewEventRepository(transport Transport) *EventRepository {
	return &EventRepository{transport: transport}
}

// Fetch retrieves the event list for a scope and installs it as the
// current list. Changing scope supersedes the previous list even while
// older requests are still in flight.
func (r *EventRepository) Fetch(ctx context.Context, scope Scope) ([]models.Event, error) {
	r.mu.Lock()
	r.scope = scope
	r.nextSeq++
	seq := r.nextSeq
	r.inFlight++
	r.mu.Unlock()

	events, err := r.transport.FetchEvents(ctx, scope)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--

	if err != nil {
		// A failed fetch for a freshly entered scope must not leave the
		// previous scope's list visible behind the new one. A failed
		// re-fetch of the scope already on display keeps the list.
		if scope == r.scope && seq >= r.applied && scope != r.appliedScope {
			r.applied = seq
			r.appliedScope = scope
			r.events = nil
		}
		return nil, err
	}

	// A late response for a scope the user has left, or one that an
	// overlapping newer request already superseded, changes nothing.
	if scope != r.scope || seq < r.applied {
		log.Debug().Str("scope", scope.String()).Msg("Discarding stale event fetch response")
		return r.snapshotLocked(), nil
	}

	r.applied = seq
	r.appliedScope = scope
	r.events = events
	return r.snapshotLocked(), nil
}

// RefreshAfterMutation re-fetches the full list for the active scope.
// Called after any acknowledged note or assignment mutation; trading a
// round trip for consistency also picks up other clients' edits.
func (r *EventRepository) RefreshAfterMutation(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	scope := r.scope
	r.mu.Unlock()
	return r.Fetch(ctx, scope)
}

// Events returns the current list.
func (r *EventRepository) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Loading reports whether any fetch is still in flight.
func (r *EventRepository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight > 0
}

// Scope returns the active scope.
func (r *EventRepository) Scope() Scope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scope
}

func (r *EventRepository) snapshotLocked() []models.Event {
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}
