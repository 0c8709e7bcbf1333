package board

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trop3n/event-management-board/internal/models"
)

func newTestController(transport Transport, notify Notifier) *BoardController {
	if notify == nil {
		notify = &notifyRecorder{}
	}
	return NewBoardController(transport, SessionInfo{
		CurrentUser: models.UserRef{ID: 1, FullName: "Alice Example"},
	}, alwaysConfirm, notify, time.UTC)
}

func TestController_MountLoadsRoomsThenEvents(t *testing.T) {
	transport := &fakeTransport{
		fetchRooms: func(context.Context) (map[int]string, error) {
			return map[int]string{100: "Sanctuary"}, nil
		},
		fetchEvents: func(context.Context, Scope) ([]models.Event, error) {
			return []models.Event{{ID: 1, EventStartDate: time.Now().UTC()}}, nil
		},
	}
	controller := newTestController(transport, nil)
	assert.Equal(t, StateUninitialized, controller.State())

	require.NoError(t, controller.Mount(context.Background(), ""))

	assert.Equal(t, StateReady, controller.State())
	assert.Equal(t, AllRooms, controller.Scope())
	assert.Equal(t, 1, transport.roomLoadCalls)
	assert.Equal(t, 1, transport.fetchCount())
	assert.Len(t, controller.Buckets().Today, 1)
}

func TestController_MountWithRoomParamScopesFetch(t *testing.T) {
	transport := &fakeTransport{}
	controller := newTestController(transport, nil)

	require.NoError(t, controller.Mount(context.Background(), "128"))

	assert.Equal(t, Scope{RoomID: 128}, controller.Scope())
	require.Len(t, transport.fetchCalls, 1)
	assert.Equal(t, Scope{RoomID: 128}, transport.fetchCalls[0])
}

func TestController_MountSurvivesRoomDirectoryFailure(t *testing.T) {
	transport := &fakeTransport{
		fetchRooms: func(context.Context) (map[int]string, error) {
			return nil, &TransportError{Op: "rooms", Err: errors.New("unreachable")}
		},
	}
	controller := newTestController(transport, nil)

	require.NoError(t, controller.Mount(context.Background(), "131"))

	// Directory failure degrades to raw identifiers, not a dead board.
	assert.Equal(t, StateReady, controller.State())
	assert.Equal(t, "Room 131", controller.Title())
}

func TestController_FetchFailureShowsEmptyBoard(t *testing.T) {
	transport := &fakeTransport{
		fetchEvents: func(context.Context, Scope) ([]models.Event, error) {
			return nil, &TransportError{Op: "fetch", Err: errors.New("timeout")}
		},
	}
	controller := newTestController(transport, nil)

	require.NoError(t, controller.Mount(context.Background(), ""))

	assert.Equal(t, StateReady, controller.State())
	b := controller.Buckets()
	assert.Empty(t, b.Today)
	assert.Empty(t, b.Tomorrow)
	assert.Empty(t, b.Upcoming)
	assert.Empty(t, b.Past)
}

func TestController_SetScopeRefetches(t *testing.T) {
	transport := &fakeTransport{}
	controller := newTestController(transport, nil)
	require.NoError(t, controller.Mount(context.Background(), ""))

	controller.SetScope(context.Background(), Scope{RoomID: 100})

	require.Len(t, transport.fetchCalls, 2)
	assert.Equal(t, Scope{RoomID: 100}, transport.fetchCalls[1])
	assert.Equal(t, StateReady, controller.State())
}

func TestController_ClosingSessionRefetchesActiveScopeOnce(t *testing.T) {
	event := models.Event{ID: 9, EventStartDate: time.Now().UTC(),
		Notes: []models.Note{{ID: 3, Author: models.UserRef{ID: 1}}}}
	transport := &fakeTransport{
		fetchEvents: func(context.Context, Scope) ([]models.Event, error) {
			return []models.Event{event}, nil
		},
	}
	controller := newTestController(transport, nil)
	require.NoError(t, controller.Mount(context.Background(), "100"))
	fetchesBefore := transport.fetchCount()

	session, err := controller.OpenEvent(9)
	require.NoError(t, err)
	require.NoError(t, session.DeleteNote(context.Background(), 3))
	session.Close(context.Background())

	assert.Equal(t, fetchesBefore+1, transport.fetchCount())
	assert.Equal(t, Scope{RoomID: 100}, transport.fetchCalls[len(transport.fetchCalls)-1])
}

func TestController_OpenUnknownEvent(t *testing.T) {
	controller := newTestController(&fakeTransport{}, nil)
	require.NoError(t, controller.Mount(context.Background(), ""))

	_, err := controller.OpenEvent(999)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestController_SyncFailureStillRefetchesThenReports(t *testing.T) {
	var order []string
	transport := &fakeTransport{
		triggerSync: func(context.Context) error {
			return &TransportError{Op: "sync", Err: errors.New("upstream down")}
		},
	}
	transport.fetchEvents = func(context.Context, Scope) ([]models.Event, error) {
		order = append(order, "fetch")
		return nil, nil
	}
	notify := &notifyRecorder{}
	recorder := notifyOrder{recorder: notify, order: &order}

	controller := newTestController(transport, &recorder)
	require.NoError(t, controller.Mount(context.Background(), ""))
	order = nil

	controller.Sync(context.Background())

	assert.Equal(t, 1, transport.syncCalls)
	require.Equal(t, []string{"fetch", "notify"}, order, "re-fetch must precede the failure report")
	require.Len(t, notify.messages, 1)
	assert.Equal(t, "Failed to sync events", notify.messages[0])
	assert.Equal(t, StateReady, controller.State())
}

func TestController_SyncSuccessReportsAfterRefetch(t *testing.T) {
	notify := &notifyRecorder{}
	transport := &fakeTransport{}
	controller := newTestController(transport, notify)
	require.NoError(t, controller.Mount(context.Background(), ""))

	controller.Sync(context.Background())

	assert.Equal(t, 2, transport.fetchCount())
	require.Len(t, notify.messages, 1)
	assert.Equal(t, "Events synced successfully!", notify.messages[0])
}

func TestController_PastDisplayTruncatedToTen(t *testing.T) {
	loc := time.UTC
	now := time.Now().In(loc)
	var events []models.Event
	for i := 0; i < 15; i++ {
		events = append(events, models.Event{
			ID:             i + 1,
			EventStartDate: now.AddDate(0, 0, -(15 - i)), // oldest first
			EventEndDate:   now.AddDate(0, 0, -(15 - i)).Add(time.Hour),
		})
	}
	transport := &fakeTransport{
		fetchEvents: func(context.Context, Scope) ([]models.Event, error) {
			return events, nil
		},
	}
	controller := newTestController(transport, nil)
	require.NoError(t, controller.Mount(context.Background(), ""))

	assert.Len(t, controller.Buckets().Past, 15, "the bucket itself is untruncated")

	display := controller.PastForDisplay()
	require.Len(t, display, PastDisplayLimit)
	// Most recent past entries survive the cut.
	assert.Equal(t, 6, display[0].ID)
	assert.Equal(t, 15, display[len(display)-1].ID)
}

func TestController_TitleUsesDirectoryWithFallback(t *testing.T) {
	transport := &fakeTransport{
		fetchRooms: func(context.Context) (map[int]string, error) {
			return map[int]string{100: "Sanctuary"}, nil
		},
	}
	controller := newTestController(transport, nil)
	require.NoError(t, controller.Mount(context.Background(), ""))

	assert.Equal(t, "All Rooms", controller.Title())

	controller.SetScope(context.Background(), Scope{RoomID: 100})
	assert.Equal(t, "Sanctuary", controller.Title())

	controller.SetScope(context.Background(), Scope{RoomID: 999})
	assert.Equal(t, "Room 999", controller.Title())
}

func TestController_StateStrings(t *testing.T) {
	for state, want := range map[State]string{
		StateUninitialized: "uninitialized",
		StateLoadingRooms:  "loading-rooms",
		StateLoadingEvents: "loading-events",
		StateReady:         "ready",
		StateSyncing:       "syncing",
	} {
		assert.Equal(t, want, state.String())
	}
	assert.Equal(t, fmt.Sprintf("state(%d)", 42), State(42).String())
}

// notifyOrder tags notifications into a shared ordering log.
type notifyOrder struct {
	recorder *notifyRecorder
	order    *[]string
}

func (n *notifyOrder) Notify(message string) {
	*n.order = append(*n.order, "notify")
	n.recorder.Notify(message)
}

func TestController_RoomListSortedByName(t *testing.T) {
	transport := &fakeTransport{
		fetchRooms: func(context.Context) (map[int]string, error) {
			return map[int]string{226: "Movie Theater", 100: "Sanctuary", 128: "Smith"}, nil
		},
	}
	controller := newTestController(transport, nil)
	require.NoError(t, controller.Mount(context.Background(), ""))

	list := controller.RoomList()
	require.Len(t, list, 3)
	assert.Equal(t, "Movie Theater", list[0].Name)
	assert.Equal(t, "Sanctuary", list[1].Name)
	assert.Equal(t, "Smith", list[2].Name)
	assert.Equal(t, 226, list[0].ID)
}

func TestController_MountBadRoomParamResetsState(t *testing.T) {
	transport := &fakeTransport{}
	controller := newTestController(transport, nil)

	err := controller.Mount(context.Background(), "chapel")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, StateUninitialized, controller.State(), "a failed mount must not park in a loading state")
	assert.Zero(t, transport.fetchCount(), "no event fetch is issued for an invalid scope")
}
