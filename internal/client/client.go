package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/board"
	"github.com/trop3n/event-management-board/internal/models"
)

// Client is the HTTP implementation of board.Transport, speaking to the
// dashboard API with a bearer token. HTTP status codes are translated
// into the board error taxonomy so the core never sees raw transport
// detail: 404 becomes *board.NotFoundError, other 4xx carrying the JSON
// error envelope become *board.ServerRejection with the server's reason
// verbatim, and everything else becomes *board.TransportError.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL + "/api/v1",
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs the bearer token used on every request.
func (c *Client) SetToken(token string) { c.token = token }

// errorEnvelope is the server's JSON error shape.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do performs a request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &board.TransportError{Op: op, Err: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &board.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("Request failed")
		return &board.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &board.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode >= 400 {
		return c.mapFailure(op, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &board.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// mapFailure turns a non-2xx response into the board error taxonomy.
func (c *Client) mapFailure(op string, status int, body []byte) error {
	var envelope errorEnvelope
	reason := ""
	if json.Unmarshal(body, &envelope) == nil {
		reason = envelope.Error
	}

	switch {
	case status == http.StatusNotFound:
		if reason == "" {
			reason = "resource"
		}
		return &board.NotFoundError{Resource: reason}
	case status >= 400 && status < 500 && status != http.StatusUnauthorized && reason != "":
		return &board.ServerRejection{Reason: reason}
	default:
		return &board.TransportError{Op: op, Err: fmt.Errorf("server returned status %d", status)}
	}
}

// Login authenticates and stores the returned token for later requests.
func (c *Client) Login(ctx context.Context, username, password string) (models.User, error) {
	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login",
		map[string]string{"username": username, "password": password}, &result)
	if err != nil {
		return models.User{}, err
	}
	c.token = result.Token
	return result.User, nil
}

// Me resolves the current user from the stored token.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FetchEvents retrieves the event list for a scope.
func (c *Client) FetchEvents(ctx context.Context, scope board.Scope) ([]models.Event, error) {
	path := "/events"
	if !scope.IsAll() {
		path += "?" + url.Values{"room_id": {strconv.Itoa(scope.RoomID)}}.Encode()
	}
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchTrackedRooms retrieves the tracked room directory.
func (c *Client) FetchTrackedRooms(ctx context.Context) (map[int]string, error) {
	var rooms map[int]string
	if err := c.do(ctx, http.MethodGet, "/sync/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// FetchUsers retrieves all users for the assignment picker.
func (c *Client) FetchUsers(ctx context.Context) ([]models.UserRef, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	refs := make([]models.UserRef, len(users))
	for i, u := range users {
		refs[i] = u.Ref()
	}
	return refs, nil
}

// AddNote attaches a note to an event.
func (c *Client) AddNote(ctx context.Context, eventID int, text string) (models.Note, error) {
	var note models.Note
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/notes", eventID),
		map[string]string{"note": text}, &note)
	return note, err
}

// DeleteNote removes a note from an event.
func (c *Client) DeleteNote(ctx context.Context, eventID, noteID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d/notes/%d", eventID, noteID), nil, nil)
}

// AddAssignment assigns a user to an event.
func (c *Client) AddAssignment(ctx context.Context, eventID, userID int, role string) (models.Assignment, error) {
	var assignment models.Assignment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/assignments", eventID),
		map[string]interface{}{"user_id": userID, "role": role}, &assignment)
	return assignment, err
}

// DeleteAssignment removes an assignment from an event.
func (c *Client) DeleteAssignment(ctx context.Context, eventID, assignmentID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d/assignments/%d", eventID, assignmentID), nil, nil)
}

// TriggerSync asks the server to sync from the upstream calendar.
func (c *Client) TriggerSync(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/sync/events", nil, nil)
}
