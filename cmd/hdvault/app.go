package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Klingon-tech/hdvault/config"
	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/notify"
	"github.com/Klingon-tech/hdvault/internal/session"
	"github.com/Klingon-tech/hdvault/internal/storage"
	"github.com/Klingon-tech/hdvault/internal/wallet"
)

// app is an opened vault plus the streams the current command talks to.
type app struct {
	stdio
	reader *bufio.Reader
	cfg    *config.Config
	kv     *storage.KVPort
	store  *session.Store
	events *notify.Recorder
	// shown counts the events already printed.
	shown int
}

// openApp opens storage, unlocks it when encryption is on, and restores
// the session.
func openApp(cfg *config.Config, sio stdio) (*app, error) {
	db, err := storage.Open(cfg.Storage.Backend, cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	kv := storage.NewKVPort(db)

	var port session.Persistence = kv
	if cfg.Storage.Encrypt {
		sealed, err := unlock(kv, cfg, sio)
		if err != nil {
			kv.Close()
			return nil, err
		}
		port = sealed
	}

	scheme, err := wallet.ParseScheme(cfg.Derivation.Secp256k1)
	if err != nil {
		kv.Close()
		return nil, err
	}
	builder := wallet.NewBuilder(wallet.NewDeriver(scheme))

	events := &notify.Recorder{}
	notifiers := notify.Multi{notify.NewLogNotifier(), events}
	if cfg.Notify.Desktop {
		notifiers = append(notifiers, notify.NewDesktop("hdvault"))
	}

	store, err := session.New(port, notifiers, builder)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}

	log.CLI.Debug().
		Str("backend", cfg.Storage.Backend).
		Bool("encrypted", cfg.Storage.Encrypt).
		Str("scheme", string(scheme)).
		Str("state", store.State().String()).
		Msg("Vault opened")

	a := &app{
		stdio:  sio,
		reader: bufio.NewReader(sio.in),
		cfg:    cfg,
		kv:     kv,
		store:  store,
		events: events,
	}
	// Show anything hydration reported, such as discarded corrupt state.
	a.flush()
	return a, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		log.CLI.Warn().Err(err).Msg("Closing storage")
	}
}

// flush prints the events recorded since the last flush. Successes go to
// stdout and errors to stderr.
func (a *app) flush() {
	events := a.events.Events()
	for _, ev := range events[a.shown:] {
		printEvent(a.out, a.errOut, ev)
	}
	a.shown = len(events)
}

// check flushes events and turns a store failure, which has already been
// shown as an event, into errReported.
func (a *app) check(err error) error {
	a.flush()
	if err != nil {
		log.CLI.Debug().Err(err).Msg("Command failed")
		return errReported
	}
	return nil
}

func printEvent(out, errOut io.Writer, ev session.Event) {
	if ev.Level == session.LevelError {
		fmt.Fprintf(errOut, "Error: %s\n", ev.Message)
		return
	}
	fmt.Fprintln(out, ev.Message)
}
