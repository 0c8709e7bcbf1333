package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// EventsUpdatedPayload tells boards which room's events changed. A zero
// RoomID means the change is not limited to one room.
type EventsUpdatedPayload struct {
	RoomID int `json:"room_id,omitempty"`
}

// EventsUpdated builds the refresh hint broadcast after mutations or sync.
func EventsUpdated(roomID int) []byte {
	msg, _ := json.Marshal(Message{
		Action:  "events.updated",
		Payload: EventsUpdatedPayload{RoomID: roomID},
	})
	return msg
}
