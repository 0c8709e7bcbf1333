package services

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SyncServiceProvider defines the interface for calendar sync services.
type SyncServiceProvider interface {
	SyncEvents() (SyncResult, error)
	GetTrackedRooms() map[int]string
}

// SyncResult reports what a sync run did.
type SyncResult struct {
	Synced  int `json:"synced"`
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

// SyncService pulls room bookings from the upstream calendar API and
// upserts them into the local events table. Only events in tracked rooms
// are stored; everything else the upstream returns is skipped.
type SyncService struct {
	db           *sql.DB
	client       *http.Client
	apiURL       string
	bearerToken  string
	trackedRooms map[int]string
}

// NewSyncService creates a new SyncService.
func NewSyncService(db *sql.DB, apiURL, bearerToken string, trackedRooms map[int]string) *SyncService {
	return &SyncService{
		db:           db,
		client:       &http.Client{Timeout: 30 * time.Second},
		apiURL:       apiURL,
		bearerToken:  bearerToken,
		trackedRooms: trackedRooms,
	}
}

// GetTrackedRooms returns the configured room ID to display name mapping.
func (s *SyncService) GetTrackedRooms() map[int]string {
	return s.trackedRooms
}

// upstreamEvent mirrors one record of the upstream calendar API response.
type upstreamEvent struct {
	EventRoomID           int     `json:"Event_Room_ID"`
	EventTitle            string  `json:"Event_Title"`
	EventTypeID           *int    `json:"Event_Type_ID"`
	RoomID                int     `json:"Room_ID"`
	EventStartDate        string  `json:"Event_Start_Date"`
	EventEndDate          string  `json:"Event_End_Date"`
	EventReservationStart *string `json:"Event_Reservation_Start"`
	EventReservationEnd   *string `json:"Event_Reservation_End"`
	MinutesForSetup       int     `json:"Minutes_for_Setup"`
	MinutesForCleanup     int     `json:"Minutes_for_Cleanup"`
	Cancelled             bool    `json:"Cancelled"`
	Approved              bool    `json:"_Approved"`
}

// SyncEvents fetches the next 30 days of bookings from the upstream API
// and upserts the ones booked in tracked rooms, keyed by the upstream
// event-room identifier.
func (s *SyncService) SyncEvents() (SyncResult, error) {
	batchID := uuid.New().String()

	start := time.Now()
	end := start.AddDate(0, 0, 30)

	upstream, err := s.fetchUpstreamEvents(start, end)
	if err != nil {
		log.Error().Err(err).Str("batch_id", batchID).Msg("Upstream calendar fetch failed")
		return SyncResult{}, err
	}

	var result SyncResult
	for _, ev := range upstream {
		roomName, tracked := s.trackedRooms[ev.RoomID]
		if !tracked {
			continue
		}
		created, err := s.upsertEvent(ev, roomName)
		if err != nil {
			return result, fmt.Errorf("failed to store event %d: %w", ev.EventRoomID, err)
		}
		if created {
			result.Synced++
		} else {
			result.Updated++
		}
	}
	result.Total = result.Synced + result.Updated

	log.Info().
		Str("batch_id", batchID).
		Int("synced", result.Synced).
		Int("updated", result.Updated).
		Msg("Calendar sync completed")
	return result, nil
}

// fetchUpstreamEvents calls the upstream calendar API for a date window.
func (s *SyncService) fetchUpstreamEvents(start, end time.Time) ([]upstreamEvent, error) {
	if s.bearerToken == "" {
		return nil, fmt.Errorf("upstream bearer token not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"@StartDate": start.Format("01/02/2006"),
		"@EndDate":   end.Format("01/02/2006"),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.bearerToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	// The upstream API sometimes nests the result in an extra array level.
	var nested [][]upstreamEvent
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []upstreamEvent
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return flat, nil
}

// upsertEvent stores one upstream event, updating it if it was synced
// before. Reports whether a new row was created.
func (s *SyncService) upsertEvent(ev upstreamEvent, roomName string) (bool, error) {
	startDate, err := parseUpstreamDate(ev.EventStartDate)
	if err != nil {
		return false, err
	}
	endDate, err := parseUpstreamDate(ev.EventEndDate)
	if err != nil {
		return false, err
	}
	reservationStart, err := parseOptionalUpstreamDate(ev.EventReservationStart)
	if err != nil {
		return false, err
	}
	reservationEnd, err := parseOptionalUpstreamDate(ev.EventReservationEnd)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()

	var existingID int
	err = s.db.QueryRow("SELECT id FROM events WHERE event_id = ?", ev.EventRoomID).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`
			INSERT INTO events (event_id, event_title, event_type_id, room_id, room_name,
				event_start_date, event_end_date, event_reservation_start, event_reservation_end,
				minutes_for_setup, minutes_for_cleanup, cancelled, approved, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ev.EventRoomID, ev.EventTitle, ev.EventTypeID, ev.RoomID, roomName,
			startDate, endDate, reservationStart, reservationEnd,
			ev.MinutesForSetup, ev.MinutesForCleanup, ev.Cancelled, ev.Approved, now, now)
		return true, err
	case err != nil:
		return false, err
	default:
		_, err = s.db.Exec(`
			UPDATE events SET event_title = ?, event_type_id = ?, room_id = ?, room_name = ?,
				event_start_date = ?, event_end_date = ?,
				event_reservation_start = ?, event_reservation_end = ?,
				minutes_for_setup = ?, minutes_for_cleanup = ?, cancelled = ?, approved = ?,
				updated_at = ?
			WHERE id = ?`,
			ev.EventTitle, ev.EventTypeID, ev.RoomID, roomName,
			startDate, endDate, reservationStart, reservationEnd,
			ev.MinutesForSetup, ev.MinutesForCleanup, ev.Cancelled, ev.Approved,
			now, existingID)
		return false, err
	}
}

func parseUpstreamDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad upstream date %q: %w", raw, err)
	}
	return t, nil
}

func parseOptionalUpstreamDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := parseUpstreamDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
