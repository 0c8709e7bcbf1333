package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string

	// Upstream calendar API used by the sync service.
	UpstreamAPIURL      string
	UpstreamBearerToken string

	// TrackedRooms maps room IDs to display names. Only events booked in
	// these rooms are pulled in by the sync service.
	TrackedRooms map[int]string

	// SyncCron is a standard cron expression for the background sync.
	// Empty disables scheduled sync; the manual trigger still works.
	SyncCron string
}

// defaultTrackedRooms covers the large event spaces of the default deployment.
var defaultTrackedRooms = map[int]string{
	100: "Sanctuary",
	128: "Smith",
	131: "Small Group Room 131",
	126: "Small Group Room 126",
	120: "Small Group Room 120",
	121: "Small Group Room 121",
	122: "Small Group Room 122",
	123: "Small Group Room 123",
	124: "Small Group Room 124",
	226: "Movie Theater",
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	rooms := defaultTrackedRooms
	if raw := os.Getenv("TRACKED_ROOMS"); raw != "" {
		rooms, err = parseTrackedRooms(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TRACKED_ROOMS: %w", err)
		}
	}

	return &Config{
		ServerPort:          port,
		DatabasePath:        getEnv("DATABASE_PATH", "./events.db"),
		UpstreamAPIURL:      getEnv("UPSTREAM_API_URL", ""),
		UpstreamBearerToken: getEnv("UPSTREAM_BEARER_TOKEN", ""),
		TrackedRooms:        rooms,
		SyncCron:            getEnv("SYNC_CRON", ""),
	}, nil
}

// parseTrackedRooms decodes a JSON object of room ID to display name,
// e.g. {"100": "Sanctuary", "128": "Smith"}.
func parseTrackedRooms(raw string) (map[int]string, error) {
	var byKey map[string]string
	if err := json.Unmarshal([]byte(raw), &byKey); err != nil {
		return nil, err
	}
	rooms := make(map[int]string, len(byKey))
	for key, name := range byKey {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("room id %q is not numeric", key)
		}
		rooms[id] = name
	}
	return rooms, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
