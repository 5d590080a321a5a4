package notify

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/hdvault/internal/session"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Error("Last() on empty recorder should report false")
	}

	r.Notify(session.Event{Level: session.LevelSuccess, Message: "one"})
	r.Notify(session.Event{Level: session.LevelError, Message: "two"})

	if got := r.Events(); len(got) != 2 || got[0].Message != "one" {
		t.Errorf("Events() = %+v", got)
	}
	if ev, ok := r.Last(); !ok || ev.Message != "two" || ev.Level != session.LevelError {
		t.Errorf("Last() = %+v, %v", ev, ok)
	}
	if drained := r.Drain(); len(drained) != 2 {
		t.Errorf("Drain() returned %d events, want 2", len(drained))
	}
	if len(r.Events()) != 0 {
		t.Error("Drain() should empty the recorder")
	}
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}
	m.Notify(session.Event{Message: "hello"})

	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Errorf("fan-out counts = %d, %d; want 1, 1", len(a.Events()), len(b.Events()))
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifierWith(zerolog.New(&buf))

	n.Notify(session.Event{Level: session.LevelSuccess, Message: "Wallet 1 generated"})
	n.Notify(session.Event{Level: session.LevelError, Message: "Invalid recovery phrase"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"level":"debug"`) || !strings.Contains(lines[0], "Wallet 1 generated") {
		t.Errorf("success line = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) || !strings.Contains(lines[1], "Invalid recovery phrase") {
		t.Errorf("error line = %s", lines[1])
	}
}

func TestLogNotifier_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifierWith(zerolog.New(&buf).Level(zerolog.WarnLevel))

	n.Notify(session.Event{Level: session.LevelSuccess, Message: "Wallet 1 generated"})
	n.Notify(session.Event{Level: session.LevelError, Message: "No wallet at that position"})

	out := buf.String()
	if strings.Contains(out, "Wallet 1 generated") {
		t.Error("success event logged at warn level")
	}
	if !strings.Contains(out, "No wallet at that position") {
		t.Errorf("error event missing at warn level: %q", out)
	}
}

func TestDesktop(t *testing.T) {
	var titles, bodies []string
	d := &Desktop{app: "hdvault", send: func(app, title, body string) error {
		titles = append(titles, title)
		bodies = append(bodies, body)
		return nil
	}}

	d.Notify(session.Event{Level: session.LevelSuccess, Message: "ok"})
	d.Notify(session.Event{Level: session.LevelError, Message: "bad"})

	if len(titles) != 2 || titles[0] != "hdvault" || titles[1] != "hdvault error" {
		t.Errorf("titles = %v", titles)
	}
	if bodies[1] != "bad" {
		t.Errorf("bodies = %v", bodies)
	}
}

func TestDesktop_SendFailureIgnored(t *testing.T) {
	d := &Desktop{app: "hdvault", send: func(_, _, _ string) error {
		return errors.New("no notifier")
	}}
	// Must not panic or block.
	d.Notify(session.Event{Message: "x"})
}
