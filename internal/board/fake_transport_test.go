package board

import (
	"context"
	"sync"

	"github.com/trop3n/event-management-board/internal/models"
)

// fakeTransport implements Transport with overridable behavior and call
// counters. Unset functions behave as successful no-ops.
type fakeTransport struct {
	mu sync.Mutex

	fetchEvents      func(ctx context.Context, scope Scope) ([]models.Event, error)
	fetchRooms       func(ctx context.Context) (map[int]string, error)
	addNote          func(ctx context.Context, eventID int, text string) (models.Note, error)
	deleteNote       func(ctx context.Context, eventID, noteID int) error
	addAssignment    func(ctx context.Context, eventID, userID int, role string) (models.Assignment, error)
	deleteAssignment func(ctx context.Context, eventID, assignmentID int) error
	triggerSync      func(ctx context.Context) error

	fetchCalls     []Scope
	noteCalls      int
	deleteCalls    int
	assignCalls    int
	unassignCalls  int
	syncCalls      int
	roomLoadCalls  int
	userFetchCalls int
}

func (f *fakeTransport) FetchEvents(ctx context.Context, scope Scope) ([]models.Event, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, scope)
	f.mu.Unlock()
	if f.fetchEvents != nil {
		return f.fetchEvents(ctx, scope)
	}
	return nil, nil
}

func (f *fakeTransport) FetchTrackedRooms(ctx context.Context) (map[int]string, error) {
	f.mu.Lock()
	f.roomLoadCalls++
	f.mu.Unlock()
	if f.fetchRooms != nil {
		return f.fetchRooms(ctx)
	}
	return map[int]string{}, nil
}

func (f *fakeTransport) FetchUsers(ctx context.Context) ([]models.UserRef, error) {
	f.mu.Lock()
	f.userFetchCalls++
	f.mu.Unlock()
	return nil, nil
}

func (f *fakeTransport) AddNote(ctx context.Context, eventID int, text string) (models.Note, error) {
	f.mu.Lock()
	f.noteCalls++
	f.mu.Unlock()
	if f.addNote != nil {
		return f.addNote(ctx, eventID, text)
	}
	return models.Note{}, nil
}

func (f *fakeTransport) DeleteNote(ctx context.Context, eventID, noteID int) error {
	f.mu.Lock()
	f.deleteCalls++
	f.mu.Unlock()
	if f.deleteNote != nil {
		return f.deleteNote(ctx, eventID, noteID)
	}
	return nil
}

func (f *fakeTransport) AddAssignment(ctx context.Context, eventID, userID int, role string) (models.Assignment, error) {
	f.mu.Lock()
	f.assignCalls++
	f.mu.Unlock()
	if f.addAssignment != nil {
		return f.addAssignment(ctx, eventID, userID, role)
	}
	return models.Assignment{}, nil
}

func (f *fakeTransport) DeleteAssignment(ctx context.Context, eventID, assignmentID int) error {
	f.mu.Lock()
	f.unassignCalls++
	f.mu.Unlock()
	if f.deleteAssignment != nil {
		return f.deleteAssignment(ctx, eventID, assignmentID)
	}
	return nil
}

func (f *fakeTransport) TriggerSync(ctx context.Context) error {
	f.mu.Lock()
	f.syncCalls++
	f.mu.Unlock()
	if f.triggerSync != nil {
		return f.triggerSync(ctx)
	}
	return nil
}

func (f *fakeTransport) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetchCalls)
}

// confirmFunc adapts a function to the Confirmer interface.
type confirmFunc func(prompt string) bool

func (f confirmFunc) Confirm(prompt string) bool { return f(prompt) }

// notifyRecorder records blocking acknowledgments in order.
type notifyRecorder struct {
	messages []string
}

func (n *notifyRecorder) Notify(message string) { n.messages = append(n.messages, message) }
