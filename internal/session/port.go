package session

// Persistence is the string key-value store the session writes through.
// A missing key is reported as ok == false with a nil error.
type Persistence interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Op is one write in a batch. Remove deletes Key and ignores Value.
type Op struct {
	Key    string
	Value  string
	Remove bool
}

// BatchWriter is implemented by persistence backends that can apply a
// group of writes atomically.
type BatchWriter interface {
	WriteBatch(ops []Op) error
}

// Level classifies a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "success"
}

// Event is a user-facing outcome of a store operation.
type Event struct {
	Level   Level
	Message string
}

// Notifier receives events. Notify must not block.
type Notifier interface {
	Notify(ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev Event) { f(ev) }

// writeOps applies ops through p, atomically when p supports batches.
func writeOps(p Persistence, ops []Op) error {
	if bw, ok := p.(BatchWriter); ok {
		return bw.WriteBatch(ops)
	}
	for _, op := range ops {
		var err error
		if op.Remove {
			err = p.Remove(op.Key)
		} else {
			err = p.Set(op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
