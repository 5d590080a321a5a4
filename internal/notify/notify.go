// Package notify delivers session events to the user.
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/session"
)

// LogNotifier writes events to a zerolog logger: successes at debug,
// errors at warn, so failures still show at the default log level.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier returns a notifier writing to the notify component logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.Notify}
}

// NewLogNotifierWith returns a notifier writing to logger.
func NewLogNotifierWith(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs ev.
func (n *LogNotifier) Notify(ev session.Event) {
	if ev.Level == session.LevelError {
		n.logger.Warn().Str("event", ev.Level.String()).Msg(ev.Message)
		return
	}
	n.logger.Debug().Str("event", ev.Level.String()).Msg(ev.Message)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []session.Event
}

// Notify records ev.
func (r *Recorder) Notify(ev session.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []session.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Last returns the most recent event.
func (r *Recorder) Last() (session.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return session.Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Drain returns the recorded events and forgets them.
func (r *Recorder) Drain() []session.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Multi fans events out to several notifiers in order.
type Multi []session.Notifier

// Notify forwards ev to every non-nil notifier.
func (m Multi) Notify(ev session.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}

// Desktop raises OS notifications. The notifier process is started and
// never waited on by the caller.
type Desktop struct {
	app  string
	send func(app, title, body string) error
}

// NewDesktop returns a desktop notifier titled with app.
func NewDesktop(app string) *Desktop {
	return &Desktop{app: app, send: sendOSNotification}
}

// Notify shows ev as a desktop notification. Failures to launch the
// notifier are logged at debug and otherwise ignored.
func (d *Desktop) Notify(ev session.Event) {
	title := d.app
	if ev.Level == session.LevelError {
		title += " error"
	}
	if err := d.send(d.app, title, ev.Message); err != nil {
		log.Notify.Debug().Err(err).Msg("Desktop notification failed")
	}
}
