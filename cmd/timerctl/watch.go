package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/KUKARAF/webtimer/pkg/timersync"
)

// watcher drives the client-side synchronization loop: an authoritative poll
// at pollEvery, and a cosmetic one-second tick that smooths the displayed
// countdown between polls. Everything runs on one goroutine; the poll and
// tick never race.
type watcher struct {
	client    *Client
	rec       *timersync.Reconciler
	out       io.Writer
	pollEvery time.Duration
}

func newWatcher(client *Client, out io.Writer, pollEvery time.Duration) *watcher {
	return &watcher{
		client:    client,
		rec:       timersync.NewReconciler(nil),
		out:       out,
		pollEvery: pollEvery,
	}
}

func (w *watcher) run(ctx context.Context) error {
	if err := w.poll(ctx); err != nil {
		return err
	}
	w.render()

	pollTicker := time.NewTicker(w.pollEvery)
	defer pollTicker.Stop()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollTicker.C:
			// A poll failure is transient; keep showing the local view and
			// try again on the next interval.
			if err := w.poll(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(w.out, "poll failed: %v\n", err)
			}
			w.render()
		case <-tick.C:
			w.rec.Tick()
			w.render()
		}
	}
}

// poll refreshes every visible timer from the server and reconciles: server
// views replace local countdowns, newly-expired timers ring the bell once,
// and timers the server no longer knows are dropped and silenced.
func (w *watcher) poll(ctx context.Context) error {
	views, err := w.client.ListTimers(ctx)
	if err != nil {
		return err
	}

	current := make(map[string]bool, len(views))
	for _, v := range views {
		current[v.ID] = true
		if w.rec.Apply(v) {
			fmt.Fprintf(w.out, "\a*** %s expired ***\n", v.DisplayName())
		}
	}

	for _, id := range w.rec.IDs() {
		if !current[id] {
			w.rec.Remove(id)
		}
	}
	return nil
}

func (w *watcher) render() {
	views := w.rec.Views()
	if len(views) == 0 {
		fmt.Fprintln(w.out, "no active timers")
		return
	}
	for _, v := range views {
		marker := ""
		if w.rec.Alarms().IsActive(v.ID) {
			marker = "  [ALARM]"
		}
		fmt.Fprintf(w.out, "%-20s %s left%s\n", v.DisplayName(), timersync.FormatTimeLeft(v.TimeLeftSeconds), marker)
	}
}
