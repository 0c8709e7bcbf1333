package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/trop3n/event-management-board/internal/models"
)

func eventStarting(id int, start time.Time) models.Event {
	return models.Event{
		ID:             id,
		EventTitle:     "Event",
		EventStartDate: start,
		EventEndDate:   start.Add(time.Hour),
	}
}

func bucketIDs(events []models.Event) []int {
	ids := make([]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func TestBucketEvents_Classification(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)

	events := []models.Event{
		eventStarting(1, time.Date(2026, 3, 10, 14, 0, 0, 0, loc)), // today, later
		eventStarting(2, time.Date(2026, 3, 11, 9, 0, 0, 0, loc)),  // tomorrow
		eventStarting(3, time.Date(2026, 3, 9, 10, 0, 0, 0, loc)),  // yesterday
	}

	b := BucketEvents(events, now, loc)

	assert.Equal(t, []int{1}, bucketIDs(b.Today))
	assert.Equal(t, []int{2}, bucketIDs(b.Tomorrow))
	assert.Empty(t, b.Upcoming)
	assert.Equal(t, []int{3}, bucketIDs(b.Past))
}

func TestBucketEvents_TodayBeforeNowIsStillToday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, loc)

	b := BucketEvents([]models.Event{
		eventStarting(1, time.Date(2026, 3, 10, 8, 0, 0, 0, loc)),
	}, now, loc)

	assert.Equal(t, []int{1}, bucketIDs(b.Today))
	assert.Empty(t, b.Past)
}

func TestBucketEvents_FarFutureIsUpcoming(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, loc)

	b := BucketEvents([]models.Event{
		eventStarting(1, time.Date(2026, 4, 2, 10, 0, 0, 0, loc)),
	}, now, loc)

	assert.Equal(t, []int{1}, bucketIDs(b.Upcoming))
}

func TestBucketEvents_PartitionWithoutDuplication(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	events := []models.Event{
		eventStarting(1, now.Add(-48*time.Hour)),
		eventStarting(2, now.Add(-1*time.Hour)),
		eventStarting(3, now.Add(2*time.Hour)),
		eventStarting(4, now.Add(24*time.Hour)),
		eventStarting(5, now.Add(96*time.Hour)),
	}

	b := BucketEvents(events, now, loc)

	seen := map[int]int{}
	for _, bucket := range [][]models.Event{b.Today, b.Tomorrow, b.Upcoming, b.Past} {
		for _, e := range bucket {
			seen[e.ID]++
		}
	}
	assert.Len(t, seen, len(events))
	for id, count := range seen {
		assert.Equal(t, 1, count, "event %d appears in more than one bucket", id)
	}
}

func TestBucketEvents_OrderPreservedWithinBuckets(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)

	// Deliberately not sorted by start time.
	events := []models.Event{
		eventStarting(1, now.Add(-2*time.Hour)),
		eventStarting(2, now.Add(-72*time.Hour)),
		eventStarting(3, now.Add(-5*time.Hour)),
		eventStarting(4, now.Add(-24*time.Hour)),
	}

	b := BucketEvents(events, now, loc)

	assert.Equal(t, []int{1, 3}, bucketIDs(b.Today))
	assert.Equal(t, []int{2, 4}, bucketIDs(b.Past))
}

func TestBucketEvents_Idempotent(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	events := []models.Event{
		eventStarting(1, now.Add(-30*time.Hour)),
		eventStarting(2, now.Add(3*time.Hour)),
		eventStarting(3, now.Add(20*time.Hour)),
	}

	first := BucketEvents(events, now, loc)
	second := BucketEvents(events, now, loc)

	assert.Equal(t, first, second)
}

func TestBucketEvents_DayEqualityFollowsLocation(t *testing.T) {
	// 23:30 UTC on March 10 is already March 11 in Helsinki (+2).
	helsinki := time.FixedZone("EET", 2*60*60)
	now := time.Date(2026, 3, 11, 1, 0, 0, 0, helsinki)

	event := eventStarting(1, time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC))

	b := BucketEvents([]models.Event{event}, now, helsinki)
	assert.Equal(t, []int{1}, bucketIDs(b.Today))

	// Evaluated in UTC instead, the same instant is the previous day.
	b = BucketEvents([]models.Event{event}, now, time.UTC)
	assert.Equal(t, []int{1}, bucketIDs(b.Past))
}

func TestBucketEvents_StartExactlyAtNowIsToday(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	b := BucketEvents([]models.Event{eventStarting(1, now)}, now, loc)
	assert.Equal(t, []int{1}, bucketIDs(b.Today))
}
