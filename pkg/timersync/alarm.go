package timersync

import (
	"sort"
	"sync"
)

// AlarmCoordinator owns the process-wide set of currently-alarming timers.
// Membership is keyed by timer id, never by name: a name can be reused by a
// future timer after the original is deleted, an id cannot.
type AlarmCoordinator struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewAlarmCoordinator() *AlarmCoordinator {
	return &AlarmCoordinator{active: make(map[string]struct{})}
}

// Start marks id as alarming. It returns false if the id was already
// alarming, so callers trigger the audible side effect at most once per id.
func (a *AlarmCoordinator) Start(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.active[id]; ok {
		return false
	}
	a.active[id] = struct{}{}
	return true
}

// Stop silences id. It returns whether the id was alarming.
func (a *AlarmCoordinator) Stop(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.active[id]; !ok {
		return false
	}
	delete(a.active, id)
	return true
}

// StopAll silences every active alarm.
func (a *AlarmCoordinator) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active = make(map[string]struct{})
}

// IsActive reports whether id is currently alarming.
func (a *AlarmCoordinator) IsActive(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.active[id]
	return ok
}

// Active returns the alarming ids in sorted order.
func (a *AlarmCoordinator) Active() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.active))
	for id := range a.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
