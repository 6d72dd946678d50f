package timersync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func view(id string, left int64, expired bool) TimerView {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return TimerView{
		ID:              id,
		DurationSeconds: 60,
		CreatedAt:       created,
		ExpiresAt:       created.Add(60 * time.Second),
		TimeLeftSeconds: left,
		Expired:         expired,
	}
}

func TestReconciler_ServerTimeWins(t *testing.T) {
	r := NewReconciler(nil)

	r.Apply(view("t1", 50, false))
	r.Tick()
	r.Tick()
	got, ok := r.Get("t1")
	require.True(t, ok)
	assert.Equal(t, int64(48), got.TimeLeftSeconds, "local ticks decrement the display")

	// The next authoritative view overrides the local countdown entirely.
	r.Apply(view("t1", 55, false))
	got, _ = r.Get("t1")
	assert.Equal(t, int64(55), got.TimeLeftSeconds)
}

func TestReconciler_ExpiredTriggersAlarmOnce(t *testing.T) {
	r := NewReconciler(nil)

	assert.False(t, r.Apply(view("t1", 3, false)))
	assert.True(t, r.Apply(view("t1", 0, true)), "first expired view starts the alarm")
	assert.False(t, r.Apply(view("t1", 0, true)), "repeat expired views must not re-trigger")
	assert.True(t, r.Alarms().IsActive("t1"))
}

func TestReconciler_TickNeverExpires(t *testing.T) {
	r := NewReconciler(nil)
	r.Apply(view("t1", 1, false))

	r.Tick()
	r.Tick()

	got, _ := r.Get("t1")
	assert.Equal(t, int64(0), got.TimeLeftSeconds)
	assert.False(t, got.Expired, "local ticking is cosmetic and never flips Expired")
	assert.False(t, r.Alarms().IsActive("t1"), "only server views may start alarms")
}

func TestReconciler_RemoveSilences(t *testing.T) {
	r := NewReconciler(nil)
	r.Apply(view("t1", 0, true))
	require.True(t, r.Alarms().IsActive("t1"))

	r.Remove("t1")

	assert.False(t, r.Alarms().IsActive("t1"))
	_, ok := r.Get("t1")
	assert.False(t, ok)
}

func TestReconciler_SilenceSurvivesNextPoll(t *testing.T) {
	r := NewReconciler(nil)

	require.True(t, r.Apply(view("t1", 0, true)))
	require.True(t, r.Silence("t1"))

	// The next polls still report the timer expired; a silenced alarm must
	// not re-arm.
	assert.False(t, r.Apply(view("t1", 0, true)))
	assert.False(t, r.Apply(view("t1", 0, true)))
	assert.False(t, r.Alarms().IsActive("t1"))
}

func TestReconciler_RemoveResetsExpiredState(t *testing.T) {
	r := NewReconciler(nil)

	require.True(t, r.Apply(view("t1", 0, true)))
	r.Remove("t1")

	// Ids are never reused server-side, but a removed id coming back is a
	// fresh first observation.
	assert.True(t, r.Apply(view("t1", 0, true)))
}

func TestReconciler_SilenceKeepsView(t *testing.T) {
	r := NewReconciler(nil)
	r.Apply(view("t1", 0, true))

	assert.True(t, r.Silence("t1"))
	assert.False(t, r.Alarms().IsActive("t1"))
	_, ok := r.Get("t1")
	assert.True(t, ok, "silencing must not remove the timer from display")
}

func TestReconciler_ViewsFirstSeenOrder(t *testing.T) {
	r := NewReconciler(nil)
	r.Apply(view("b", 30, false))
	r.Apply(view("a", 60, false))
	r.Apply(view("b", 29, false))

	views := r.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "b", views[0].ID)
	assert.Equal(t, "a", views[1].ID)
}

func TestReconciler_AlarmKeyedByID(t *testing.T) {
	r := NewReconciler(nil)

	// A named timer expires and is removed; a new timer reusing the name must
	// alarm independently because alarm state is keyed by id.
	v1 := view("id-1", 0, true)
	v1.Name = strPtr("tea")
	require.True(t, r.Apply(v1))
	r.Remove("id-1")

	v2 := view("id-2", 0, true)
	v2.Name = strPtr("tea")
	assert.True(t, r.Apply(v2))
}

func TestFormatTimeLeft(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTimeLeft(0))
	assert.Equal(t, "00:00:59", FormatTimeLeft(59))
	assert.Equal(t, "00:01:05", FormatTimeLeft(65))
	assert.Equal(t, "01:01:01", FormatTimeLeft(3661))
	assert.Equal(t, "00:00:00", FormatTimeLeft(-5))
}

func TestTimerView_DisplayName(t *testing.T) {
	v := view("0123456789abcdef", 10, false)
	assert.Equal(t, "Timer 01234567", v.DisplayName())

	v.Name = strPtr("coffee")
	assert.Equal(t, "coffee", v.DisplayName())
}
