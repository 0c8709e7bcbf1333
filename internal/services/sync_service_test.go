package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstreamHandler(t *testing.T, events []map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var window map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&window))
		assert.NotEmpty(t, window["@StartDate"])
		assert.NotEmpty(t, window["@EndDate"])

		// The upstream wraps its result in an extra array level.
		json.NewEncoder(w).Encode([][]map[string]interface{}{events})
	}
}

func upstreamEventJSON(eventRoomID, roomID int, title string, start time.Time) map[string]interface{} {
	return map[string]interface{}{
		"Event_Room_ID":     eventRoomID,
		"Event_Title":       title,
		"Room_ID":           roomID,
		"Event_Start_Date":  start.Format(time.RFC3339),
		"Event_End_Date":    start.Add(time.Hour).Format(time.RFC3339),
		"Minutes_for_Setup": 15,
		"Cancelled":         false,
		"_Approved":         true,
	}
}

func TestSyncEvents_InsertsTrackedAndSkipsUntracked(t *testing.T) {
	db := newTestDB(t)
	start := time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)

	upstream := httptest.NewServer(upstreamHandler(t, []map[string]interface{}{
		upstreamEventJSON(9001, 100, "Sunday Service", start),
		upstreamEventJSON(9002, 555, "Untracked Room Meeting", start),
	}))
	defer upstream.Close()

	svc := NewSyncService(db, upstream.URL, "test-token", testRooms)

	result, err := svc.SyncEvents()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Total)

	events, err := NewEventService(db, testRooms).ListEvents(nil, true)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Sunday Service", events[0].EventTitle)
	assert.Equal(t, "Sanctuary", events[0].RoomName)
	assert.Equal(t, 15, events[0].MinutesForSetup)
	assert.True(t, events[0].Approved)
}

func TestSyncEvents_SecondRunUpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	start := time.Now().UTC().Truncate(time.Second).Add(24 * time.Hour)

	first := httptest.NewServer(upstreamHandler(t, []map[string]interface{}{
		upstreamEventJSON(9001, 100, "Original Title", start),
	}))
	svc := NewSyncService(db, first.URL, "test-token", testRooms)
	_, err := svc.SyncEvents()
	require.NoError(t, err)
	first.Close()

	renamed := upstreamEventJSON(9001, 100, "Renamed Title", start)
	renamed["Cancelled"] = true
	second := httptest.NewServer(upstreamHandler(t, []map[string]interface{}{renamed}))
	defer second.Close()

	svc = NewSyncService(db, second.URL, "test-token", testRooms)
	result, err := svc.SyncEvents()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 1, result.Updated)

	events, err := NewEventService(db, testRooms).ListEvents(nil, true)
	require.NoError(t, err)
	require.Len(t, events, 1, "upsert must not duplicate the event row")
	assert.Equal(t, "Renamed Title", events[0].EventTitle)
	assert.True(t, events[0].Cancelled)
}

func TestSyncEvents_MissingTokenFailsFast(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, "http://localhost:0", "", testRooms)

	_, err := svc.SyncEvents()
	assert.Error(t, err)
}

func TestSyncEvents_UpstreamFailure(t *testing.T) {
	db := newTestDB(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := NewSyncService(db, upstream.URL, "test-token", testRooms)
	_, err := svc.SyncEvents()
	assert.Error(t, err)
}

func TestGetTrackedRooms(t *testing.T) {
	svc := NewSyncService(newTestDB(t), "", "token", testRooms)
	assert.Equal(t, testRooms, svc.GetTrackedRooms())
}
