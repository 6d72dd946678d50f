package timersync

import (
	"sort"
	"sync"
)

// Reconciler tracks the last authoritative view of each visible timer and
// applies the synchronization rules: server time always wins, a timer that is
// first seen expired starts exactly one alarm, and a deleted timer stops its
// alarm and drops out of the display set.
type Reconciler struct {
	mu      sync.Mutex
	views   map[string]TimerView
	expired map[string]struct{}
	order   []string
	alarms  *AlarmCoordinator
}

func NewReconciler(alarms *AlarmCoordinator) *Reconciler {
	if alarms == nil {
		alarms = NewAlarmCoordinator()
	}
	return &Reconciler{
		views:   make(map[string]TimerView),
		expired: make(map[string]struct{}),
		alarms:  alarms,
	}
}

// Alarms returns the coordinator holding alarm state.
func (r *Reconciler) Alarms() *AlarmCoordinator {
	return r.alarms
}

// Apply ingests a freshly-fetched view. The server's TimeLeftSeconds replaces
// whatever the local countdown showed. It returns true when this view started
// an alarm: only the first expired observation per id arms the alarm, so a
// timer that was explicitly silenced stays silent across later polls.
func (r *Reconciler) Apply(v TimerView) bool {
	r.mu.Lock()
	if _, seen := r.views[v.ID]; !seen {
		r.order = append(r.order, v.ID)
	}
	r.views[v.ID] = v

	first := false
	if v.Expired {
		if _, seen := r.expired[v.ID]; !seen {
			r.expired[v.ID] = struct{}{}
			first = true
		}
	}
	r.mu.Unlock()

	if first {
		return r.alarms.Start(v.ID)
	}
	return false
}

// Remove drops a timer from the visible set and silences its alarm. Called
// when a delete succeeds or a fetch reports the timer gone.
func (r *Reconciler) Remove(id string) {
	r.mu.Lock()
	if _, ok := r.views[id]; ok {
		delete(r.views, id)
		for i, existing := range r.order {
			if existing == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	delete(r.expired, id)
	r.mu.Unlock()

	r.alarms.Stop(id)
}

// Silence stops the alarm for id but keeps the timer visible. The id stays
// marked as seen-expired, so later polls carrying the same expired view do
// not re-arm it.
func (r *Reconciler) Silence(id string) bool {
	return r.alarms.Stop(id)
}

// Tick decrements every displayed countdown by one second, floored at zero.
// This is cosmetic smoothing between polls; it never flips the Expired flag
// and never starts an alarm, because only server views are ground truth.
func (r *Reconciler) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.views {
		if v.TimeLeftSeconds > 0 {
			v.TimeLeftSeconds--
			r.views[id] = v
		}
	}
}

// Get returns the current view for id, if visible.
func (r *Reconciler) Get(id string) (TimerView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	return v, ok
}

// Views returns a snapshot of the visible timers in first-seen order.
func (r *Reconciler) Views() []TimerView {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TimerView, 0, len(r.views))
	for _, id := range r.order {
		out = append(out, r.views[id])
	}
	return out
}

// IDs returns the ids of the visible timers in sorted order. Used by pollers
// to detect timers that disappeared server-side.
func (r *Reconciler) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
