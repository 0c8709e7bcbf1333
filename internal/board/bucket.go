package board

import (
	"time"

	"github.com/trop3n/event-management-board/internal/models"
)

// Buckets is the temporal projection of an event list: four ordered
// sequences keyed off each event's start instant relative to "now".
// Within a bucket, events keep their input order.
type Buckets struct {
	Today    []models.Event
	Tomorrow []models.Event
	Upcoming []models.Event
	Past     []models.Event
}

// BucketEvents classifies events by start instant against the reference
// time. Day equality for today/tomorrow is evaluated in loc, which pins
// down what "calendar day" means regardless of where the clock sample or
// the event timestamps came from.
//
// An event that matches no rule (same instant as now on a different
// calendar day, which takes pathological clock skew) is dropped, not an
// error. The Past bucket is returned in full; display truncation is the
// controller's business.
func BucketEvents(events []models.Event, now time.Time, loc *time.Location) Buckets {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	tomorrow := now.AddDate(0, 0, 1)

	var b Buckets
	for _, event := range events {
		start := event.EventStartDate.In(loc)
		switch {
		case sameDay(start, now):
			b.Today = append(b.Today, event)
		case start.Before(now):
			b.Past = append(b.Past, event)
		case sameDay(start, tomorrow):
			b.Tomorrow = append(b.Tomorrow, event)
		case start.After(now):
			b.Upcoming = append(b.Upcoming, event)
		}
	}
	return b
}

// sameDay reports whether two instants fall on the same calendar day.
// Both must already be in the evaluation location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
