// Package timersync defines the read contract between the timer server and
// its clients: the TimerView projection, the reconciliation rules clients
// apply to successive views, and the coordinator for audible alarms.
package timersync

import (
	"fmt"
	"time"
)

// TimerView is the read-only projection of a timer that clients receive.
// TimeLeftSeconds is computed against the server clock at the moment of the
// read; it is authoritative and overrides any client-side countdown.
type TimerView struct {
	ID              string    `json:"id"`
	Name            *string   `json:"name"`
	DurationSeconds int64     `json:"duration_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	TimeLeftSeconds int64     `json:"time_left_seconds"`
	Expired         bool      `json:"expired"`
}

// DisplayName returns the timer's name, or a short id-based label for
// unnamed timers.
func (v TimerView) DisplayName() string {
	if v.Name != nil && *v.Name != "" {
		return *v.Name
	}
	id := v.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Timer " + id
}

// FormatTimeLeft renders a remaining-seconds count as HH:MM:SS.
func FormatTimeLeft(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
