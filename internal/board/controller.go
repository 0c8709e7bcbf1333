package board

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/models"
)

// State is the board controller's lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateLoadingRooms
	StateLoadingEvents
	StateReady
	StateSyncing
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoadingRooms:
		return "loading-rooms"
	case StateLoadingEvents:
		return "loading-events"
	case StateReady:
		return "ready"
	case StateSyncing:
		return "syncing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PastDisplayLimit caps how many past events the board renders. The
// underlying bucket keeps the full list.
const PastDisplayLimit = 10

// BoardController orchestrates the board view: it resolves the active
// scope from navigation, loads the room directory once, drives event
// fetches through the repository, projects the result through the
// bucketer, and routes user actions. It lives for the lifetime of the
// mounted board and has no terminal state.
type BoardController struct {
	transport Transport
	repo      *EventRepository
	rooms     *RoomDirectory
	session   SessionInfo
	confirm   Confirmer
	notify    Notifier
	loc       *time.Location

	state      State
	scope      Scope
	buckets    Buckets
	bucketedAt time.Time
}

// NewBoardController wires a controller from its collaborators. loc pins
// the calendar-day basis for bucketing; nil means the local clock's zone.
func NewBoardController(transport Transport, session SessionInfo, confirm Confirmer, notify Notifier, loc *time.Location) *BoardController {
	if loc == nil {
		loc = time.Local
	}
	return &BoardController{
		transport: transport,
		repo:      NewEventRepository(transport),
		rooms:     NewRoomDirectory(transport),
		session:   session,
		confirm:   confirm,
		notify:    notify,
		loc:       loc,
		state:     StateUninitialized,
	}
}

// Mount initializes the board: load the room directory (an empty result
// is fine), resolve the scope from the navigation parameter, then fetch
// and bucket events.
func (c *BoardController) Mount(ctx context.Context, roomParam string) error {
	c.state = StateLoadingRooms
	c.rooms.Load(ctx)

	scope, err := ParseScope(roomParam)
	if err != nil {
		c.state = StateUninitialized
		return err
	}
	c.scope = scope
	c.refresh(ctx)
	return nil
}

// refresh fetches the active scope and re-buckets with "now" sampled at
// fetch completion. Read failures degrade to an empty board instead of
// surfacing; the board stays interactive either way.
func (c *BoardController) refresh(ctx context.Context) {
	c.state = StateLoadingEvents
	events, err := c.repo.Fetch(ctx, c.scope)
	if err != nil {
		log.Warn().Err(err).Str("scope", c.scope.String()).Msg("Failed to fetch events, showing empty board")
		events = nil
	}

	now := time.Now().In(c.loc)
	c.buckets = BucketEvents(events, now, c.loc)
	c.bucketedAt = now
	c.state = StateReady
}

// SetScope switches the board to a different room filter and re-fetches.
func (c *BoardController) SetScope(ctx context.Context, scope Scope) {
	if c.state == StateUninitialized {
		return
	}
	c.scope = scope
	c.refresh(ctx)
}

// Sync triggers the server-side calendar sync, then unconditionally
// re-fetches the active scope. The failure message is delivered after the
// re-fetch so the board is already current when the user acknowledges it.
func (c *BoardController) Sync(ctx context.Context) {
	c.state = StateSyncing
	syncErr := c.transport.TriggerSync(ctx)
	c.refresh(ctx)

	if syncErr != nil {
		log.Error().Err(syncErr).Msg("Sync trigger failed")
		c.notify.Notify("Failed to sync events")
		return
	}
	c.notify.Notify("Events synced successfully!")
}

// OpenEvent spawns a detail session for one event from the current list.
// Closing the session refreshes the board for whatever scope is active at
// that moment.
func (c *BoardController) OpenEvent(id int) (*EventDetailSession, error) {
	for _, event := range c.repo.Events() {
		if event.ID == id {
			return NewEventDetailSession(c.transport, c.session, event, c.confirm, c.refresh), nil
		}
	}
	return nil, &NotFoundError{Resource: fmt.Sprintf("event %d", id)}
}

// State returns the controller's current lifecycle phase.
func (c *BoardController) State() State { return c.state }

// Scope returns the active scope.
func (c *BoardController) Scope() Scope { return c.scope }

// Buckets returns the current temporal projection, untruncated.
func (c *BoardController) Buckets() Buckets { return c.buckets }

// BucketedAt returns the reference instant of the current projection.
func (c *BoardController) BucketedAt() time.Time { return c.bucketedAt }

// PastForDisplay returns the rendered past list: the most recent
// PastDisplayLimit entries of the past bucket.
func (c *BoardController) PastForDisplay() []models.Event {
	past := c.buckets.Past
	if len(past) <= PastDisplayLimit {
		return past
	}
	return past[len(past)-PastDisplayLimit:]
}

// Title returns the board heading for the active scope.
func (c *BoardController) Title() string {
	if c.scope.IsAll() {
		return "All Rooms"
	}
	return c.rooms.ResolveName(c.scope.RoomID)
}

// Rooms exposes the directory mapping for the scope selector.
func (c *BoardController) Rooms() map[int]string { return c.rooms.Rooms() }

// RoomList returns the tracked rooms ordered by display name.
func (c *BoardController) RoomList() []models.TrackedRoom { return c.rooms.Sorted() }
