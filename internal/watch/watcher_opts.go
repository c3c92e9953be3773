package watch

import (
	"time"

	"github.com/pixil98/go-lobby/internal/display"
)

type WatcherOpt func(*Watcher)

// WithEventTemplate sets the template used to render notifications.
func WithEventTemplate(tmpl *display.EventTemplate) WatcherOpt {
	return func(w *Watcher) {
		w.tmpl = tmpl
	}
}

// WithRosterOnSync controls whether the full roster is logged when the
// initial snapshot lands.
func WithRosterOnSync(enabled bool) WatcherOpt {
	return func(w *Watcher) {
		w.rosterOnSync = enabled
	}
}

// WithRetryInterval sets the pause between redial attempts.
func WithRetryInterval(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		w.retryInterval = d
	}
}
