// Package cache holds the Redis key helpers shared by the API handlers and
// the payment reconciler.
package cache

import (
	"fmt"
	"time"
)

// OccupiedSeatsTTL bounds how stale a cached seat map may get. Writers also
// delete the key explicitly on every claim and release.
const OccupiedSeatsTTL = 10 * time.Second

func OccupiedSeatsKey(showID int) string {
	return fmt.Sprintf("occupied_seats:%d", showID)
}
