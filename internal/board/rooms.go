package board

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/models"
)

// RoomDirectory maps tracked room identifiers to display names. It is
// loaded once per board mount and never invalidated; room membership
// changes need a remount.
type RoomDirectory struct {
	transport Transport
	rooms     map[int]string
}

// NewRoomDirectory creates an empty directory bound to a transport.
func NewRoomDirectory(transport Transport) *RoomDirectory {
	return &RoomDirectory{transport: transport, rooms: map[int]string{}}
}

// Load fetches the tracked-rooms mapping. A transport failure is logged
// and leaves the directory empty; scope selection then falls back to raw
// room identifiers instead of blocking the board.
func (d *RoomDirectory) Load(ctx context.Context) {
	rooms, err := d.transport.FetchTrackedRooms(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load tracked rooms, showing raw room ids")
		return
	}
	d.rooms = rooms
}

// ResolveName returns the display name for a room, or "Room {id}" when
// the id is absent from the directory.
func (d *RoomDirectory) ResolveName(id int) string {
	if name, ok := d.rooms[id]; ok {
		return name
	}
	return fmt.Sprintf("Room %d", id)
}

// Rooms returns a copy of the directory mapping.
func (d *RoomDirectory) Rooms() map[int]string {
	out := make(map[int]string, len(d.rooms))
	for id, name := range d.rooms {
		out[id] = name
	}
	return out
}

// Sorted returns the directory as a list ordered by display name, for
// the scope selector.
func (d *RoomDirectory) Sorted() []models.TrackedRoom {
	out := make([]models.TrackedRoom, 0, len(d.rooms))
	for id, name := range d.rooms {
		out = append(out, models.TrackedRoom{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
