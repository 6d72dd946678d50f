package services

import (
	"errors"
	"strings"
	"time"

	"github.com/KUKARAF/webtimer/internal/clock"
	"github.com/KUKARAF/webtimer/internal/models"
	"github.com/KUKARAF/webtimer/internal/store"
	"github.com/KUKARAF/webtimer/pkg/timersync"
)

// ErrInvalidDuration is returned when a create request carries a
// non-positive duration.
var ErrInvalidDuration = errors.New("duration must be a positive integer")

// TimerService enforces the timer business rules on top of the store:
// creation validation, identifier resolution, view projection, deletion and
// reclamation. It is stateless between calls apart from its store and clock
// references.
type TimerService struct {
	store *store.TimerStore
	clock clock.Clock
}

func NewTimerService(st *store.TimerStore, clk clock.Clock) *TimerService {
	if clk == nil {
		clk = clock.System
	}
	return &TimerService{store: st, clock: clk}
}

// Create validates the request, stamps creation and expiry times from the
// clock, and persists a new record. The expiry is computed once and stored so
// later clock adjustments never move a timer's commitment. An empty or
// whitespace-only name is treated as absent.
func (s *TimerService) Create(durationSeconds int64, name string) (*timersync.TimerView, error) {
	if durationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}

	var namePtr *string
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		namePtr = &trimmed
	}

	now := s.clock.Now()
	rec := &models.TimerRecord{
		Name:            namePtr,
		DurationSeconds: durationSeconds,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(durationSeconds) * time.Second),
	}

	if _, err := s.store.Insert(rec); err != nil {
		return nil, err
	}

	view := s.project(rec, now)
	return &view, nil
}

// Resolve maps a caller-supplied identifier to a view. Lookup is by id
// first, then by name; the order is a documented tie-break so an id always
// wins over a name that happens to look like one.
func (s *TimerService) Resolve(identifier string) (*timersync.TimerView, error) {
	rec, err := s.resolveRecord(identifier)
	if err != nil {
		return nil, err
	}
	view := s.project(rec, s.clock.Now())
	return &view, nil
}

// Delete resolves identifier and removes the record by its id. It returns
// store.ErrNotFound when nothing resolves; the bool reports whether the
// store actually removed a row (false only if a concurrent delete won).
func (s *TimerService) Delete(identifier string) (bool, error) {
	rec, err := s.resolveRecord(identifier)
	if err != nil {
		return false, err
	}
	return s.store.Delete(rec.ID)
}

// List returns a view of every live timer in creation order. Each view's
// time left is computed fresh against the clock at this read.
func (s *TimerService) List() ([]timersync.TimerView, error) {
	recs, err := s.store.ListAll()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]timersync.TimerView, 0, len(recs))
	for i := range recs {
		views = append(views, s.project(&recs[i], now))
	}
	return views, nil
}

// Reclaim removes every record that has been expired for longer than grace,
// measured at now. A zero grace sweeps timers the moment they expire; a
// positive grace retains the terminal "expired" view for that long so
// in-flight reads can still observe it.
func (s *TimerService) Reclaim(now time.Time, grace time.Duration) (int64, error) {
	return s.store.DeleteExpiredBefore(now.Add(-grace))
}

func (s *TimerService) resolveRecord(identifier string) (*models.TimerRecord, error) {
	rec, err := s.store.GetByID(identifier)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return s.store.GetByName(identifier)
}

// project builds the read view of rec at the given instant. Time left is
// clamped at zero: once a timer reaches zero it stays there.
func (s *TimerService) project(rec *models.TimerRecord, now time.Time) timersync.TimerView {
	left := int64(rec.ExpiresAt.Sub(now) / time.Second)
	if left < 0 {
		left = 0
	}
	return timersync.TimerView{
		ID:              rec.ID,
		Name:            rec.Name,
		DurationSeconds: rec.DurationSeconds,
		CreatedAt:       rec.CreatedAt,
		ExpiresAt:       rec.ExpiresAt,
		TimeLeftSeconds: left,
		Expired:         left == 0,
	}
}
