package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected board clients and broadcasts refresh
// hints to them. The server never pushes event payloads over the socket;
// clients re-fetch through the API when hinted, so the board list stays
// consistent with the authoritative store.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Inbound messages targeting one room scope.
	scoped chan scopedMessage

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of room scopes to the set of clients watching that scope.
	subscriptions map[string]map[*Client]bool
}

// scopedMessage pairs a refresh hint with the room scope it targets.
type scopedMessage struct {
	scope   string
	message []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		scoped:        make(chan scopedMessage),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Board client connected")
			if client.Scope != "" {
				h.addSubscription(client, client.Scope)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Board client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case sm := <-h.scoped:
			h.deliverTo(sm.scope, sm.message)
		}
	}
}

// BroadcastTo sends a message to all clients watching a specific room
// scope. Delivery happens on the hub's loop, so this is safe to call
// from any goroutine while Run is active.
func (h *Hub) BroadcastTo(scope string, message []byte) {
	h.scoped <- scopedMessage{scope: scope, message: message}
}

func (h *Hub) deliverTo(scope string, message []byte) {
	if subs, ok := h.subscriptions[scope]; ok {
		for client := range subs {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
				delete(h.subscriptions[scope], client)
			}
		}
	}
}

func (h *Hub) addSubscription(client *Client, scope string) {
	if h.subscriptions[scope] == nil {
		h.subscriptions[scope] = make(map[*Client]bool)
	}
	h.subscriptions[scope][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for scope, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, scope)
			}
		}
	}
}
