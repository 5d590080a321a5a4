// Package session holds the wallet collection of the active vault session
// and keeps it in sync with persistence.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Klingon-tech/hdvault/internal/log"
	"github.com/Klingon-tech/hdvault/internal/wallet"
)

// State is the lifecycle state of a session.
type State int

const (
	// StateEmpty has no chain and no wallets.
	StateEmpty State = iota
	// StateChainChosen has a chain but no wallets.
	StateChainChosen
	// StatePopulated has at least one wallet.
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateChainChosen:
		return "chain-chosen"
	case StatePopulated:
		return "populated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Entry is one wallet of the collection with its chain and reveal flags.
type Entry struct {
	Wallet            wallet.Wallet
	Chain             wallet.Chain
	PrivateKeyVisible bool
	PhraseVisible     bool
}

// Store owns the wallet collection. All methods are safe for concurrent
// use; mutations are serialised and each one, including its persistence
// write, completes before the next starts.
type Store struct {
	mu       sync.Mutex
	port     Persistence
	notifier Notifier
	builder  *wallet.Builder

	chain    wallet.Chain
	hasChain bool
	mnemonic string
	// cursors holds, per chain, the account index handed to the next
	// derived wallet. It only moves forward until ClearAll.
	cursors map[wallet.Chain]uint32
	entries []Entry
}

// New creates a store and hydrates it from port. Missing state yields an
// empty store. A retained mnemonic whose wallets were all deleted is
// restored with its cursors. Malformed state yields an empty store and one error event.
// A failure to read port is returned.
func New(port Persistence, notifier Notifier, builder *wallet.Builder) (*Store, error) {
	if port == nil {
		return nil, errors.New("nil persistence port")
	}
	if notifier == nil {
		notifier = NotifierFunc(func(Event) {})
	}
	if builder == nil {
		builder = wallet.NewBuilder(nil)
	}
	s := &Store{port: port, notifier: notifier, builder: builder}

	snap, found, err := load(port)
	switch {
	case errors.Is(err, ErrPersistenceCorrupt):
		log.Session.Warn().Err(err).Msg("Discarding corrupt persisted state")
		s.notifyError(err)
		return s, nil
	case err != nil:
		return nil, err
	case !found:
		log.Session.Debug().Msg("No persisted session")
		return s, nil
	}

	s.chain = snap.chain
	s.hasChain = snap.hasChain
	s.mnemonic = snap.mnemonic
	s.cursors = snap.cursors
	s.entries = snap.entries
	log.Session.Info().
		Str("chain", s.chain.String()).
		Str("state", s.stateLocked().String()).
		Int("wallets", len(s.entries)).
		Str("fingerprint", wallet.Fingerprint(s.mnemonic)).
		Msg("Restored session")
	return s, nil
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	switch {
	case len(s.entries) > 0:
		return StatePopulated
	case s.hasChain:
		return StateChainChosen
	default:
		return StateEmpty
	}
}

// Chain returns the session chain, if one is chosen.
func (s *Store) Chain() (wallet.Chain, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain, s.hasChain
}

// Fingerprint identifies the session mnemonic without revealing it.
// It is empty when no mnemonic is active.
func (s *Store) Fingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mnemonic == "" {
		return ""
	}
	return wallet.Fingerprint(s.mnemonic)
}

// NextAccount returns the account index the next wallet will use.
func (s *Store) NextAccount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasChain {
		return 0
	}
	return s.cursors[s.chain]
}

// ListWallets returns a copy of the collection in order.
func (s *Store) ListWallets() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ChooseChain fixes the chain for the session. It is rejected once the
// session holds wallets. Each chain keeps its own account cursor. The
// chain is not checked for a key factory here; generation reports an
// unsupported chain.
func (s *Store) ChooseChain(chain wallet.Chain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 0 {
		return s.fail(fmt.Errorf("choose chain: %w", ErrSessionActive))
	}
	s.chain = chain
	s.hasChain = true
	log.Session.Debug().Str("chain", chain.String()).Msg("Chain chosen")
	s.notifySuccess("Chain set to %s", chain)
	return nil
}

// GenerateFirstWallet derives the first wallet of the session. An empty
// phrase generates a fresh mnemonic, unless the session still holds one
// after its wallets were deleted, in which case that one is reused.
func (s *Store) GenerateFirstWallet(phrase string) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasChain {
		return wallet.Wallet{}, s.fail(fmt.Errorf("%w: no chain selected", wallet.ErrUnsupportedChain))
	}
	if len(s.entries) > 0 {
		return wallet.Wallet{}, s.fail(fmt.Errorf("generate: %w", ErrSessionActive))
	}

	mnemonic := wallet.NormalizeMnemonic(phrase)
	switch {
	case mnemonic != "" && !wallet.ValidateMnemonic(mnemonic):
		return wallet.Wallet{}, s.fail(wallet.ErrInvalidMnemonic)
	case s.mnemonic != "" && mnemonic != "" && mnemonic != s.mnemonic:
		return wallet.Wallet{}, s.fail(fmt.Errorf("generate: %w: clear the vault to use another phrase", ErrSessionActive))
	case s.mnemonic != "":
		mnemonic = s.mnemonic
	case mnemonic == "":
		if _, err := wallet.FactoryFor(s.chain); err != nil {
			return wallet.Wallet{}, s.fail(err)
		}
		fresh, err := wallet.GenerateMnemonic()
		if err != nil {
			return wallet.Wallet{}, s.fail(err)
		}
		mnemonic = fresh
	}

	w, err := s.appendLocked(mnemonic)
	if err != nil {
		return wallet.Wallet{}, s.fail(err)
	}
	s.notifySuccess("Wallet %d generated", len(s.entries))
	return w, nil
}

// AddAccount derives the next account from the session mnemonic.
func (s *Store) AddAccount() (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mnemonic == "" || !s.hasChain {
		return wallet.Wallet{}, s.fail(ErrNoActiveMnemonic)
	}
	w, err := s.appendLocked(s.mnemonic)
	if err != nil {
		return wallet.Wallet{}, s.fail(err)
	}
	s.notifySuccess("Wallet %d generated", len(s.entries))
	return w, nil
}

// appendLocked derives the wallet at the cursor, persists the grown
// collection and only then commits it to memory.
func (s *Store) appendLocked(mnemonic string) (wallet.Wallet, error) {
	account := s.cursors[s.chain]
	w, err := s.builder.BuildWallet(s.chain, mnemonic, account)
	if err != nil {
		return wallet.Wallet{}, err
	}

	entries := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	entries = append(entries, Entry{Wallet: w, Chain: s.chain})

	cursors := make(map[wallet.Chain]uint32, len(s.cursors)+1)
	for c, n := range s.cursors {
		cursors[c] = n
	}
	cursors[s.chain] = account + 1

	next := snapshot{chain: s.chain, hasChain: true, mnemonic: mnemonic, cursors: cursors, entries: entries}
	if err := s.persistLocked(next); err != nil {
		return wallet.Wallet{}, err
	}
	s.mnemonic = mnemonic
	s.cursors = cursors
	s.entries = entries

	log.Session.Info().
		Str("chain", s.chain.String()).
		Str("path", w.Path).
		Str("fingerprint", wallet.Fingerprint(mnemonic)).
		Msg("Wallet added")
	return w, nil
}

// DeleteWallet removes the wallet at index. Remaining wallets keep their
// paths and the deleted account index is never handed out again.
func (s *Store) DeleteWallet(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return s.fail(fmt.Errorf("delete %d: %w", index, ErrIndexOutOfRange))
	}

	entries := make([]Entry, 0, len(s.entries)-1)
	entries = append(entries, s.entries[:index]...)
	entries = append(entries, s.entries[index+1:]...)

	// The stored mnemonic, cursors and chain are left as they are, so a
	// restart after the last delete still knows which indices were used.
	ops, err := snapshot{chain: s.chain, entries: entries}.collectionOps()
	if err != nil {
		return s.fail(err)
	}
	if err := writeOps(s.port, ops); err != nil {
		return s.fail(fmt.Errorf("persist: %w", err))
	}

	removed := s.entries[index].Wallet.Path
	s.entries = entries
	log.Session.Info().Str("path", removed).Int("remaining", len(entries)).Msg("Wallet deleted")
	s.notifySuccess("Wallet %d deleted", index+1)
	return nil
}

// ClearAll empties the collection, forgets the mnemonic and chain, and
// removes every session key from persistence.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeOps(s.port, clearOps()); err != nil {
		return s.fail(fmt.Errorf("persist: %w", err))
	}
	s.entries = nil
	s.mnemonic = ""
	s.hasChain = false
	s.chain = 0
	s.cursors = nil
	log.Session.Info().Msg("Session cleared")
	s.notifySuccess("All wallets cleared")
	return nil
}

// TogglePrivateKeyVisible flips the private key reveal flag at index.
func (s *Store) TogglePrivateKeyVisible(index int) error {
	return s.toggle(index, "private key", func(e *Entry) bool {
		e.PrivateKeyVisible = !e.PrivateKeyVisible
		return e.PrivateKeyVisible
	})
}

// TogglePhraseVisible flips the phrase reveal flag at index.
func (s *Store) TogglePhraseVisible(index int) error {
	return s.toggle(index, "phrase", func(e *Entry) bool {
		e.PhraseVisible = !e.PhraseVisible
		return e.PhraseVisible
	})
}

func (s *Store) toggle(index int, what string, flip func(*Entry) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return s.fail(fmt.Errorf("toggle %s %d: %w", what, index, ErrIndexOutOfRange))
	}
	if flip(&s.entries[index]) {
		s.notifySuccess("Wallet %d %s shown", index+1, what)
	} else {
		s.notifySuccess("Wallet %d %s hidden", index+1, what)
	}
	return nil
}

func (s *Store) persistLocked(next snapshot) error {
	ops, err := next.encode()
	if err != nil {
		return err
	}
	if err := writeOps(s.port, ops); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}

// fail reports err as an error event and returns it.
func (s *Store) fail(err error) error {
	log.Session.Debug().Err(err).Msg("Operation failed")
	s.notifyError(err)
	return err
}

func (s *Store) notifyError(err error) {
	s.notifier.Notify(Event{Level: LevelError, Message: describe(err)})
}

func (s *Store) notifySuccess(format string, args ...any) {
	s.notifier.Notify(Event{Level: LevelSuccess, Message: fmt.Sprintf(format, args...)})
}

// describe turns an error into a user-facing message.
func describe(err error) string {
	switch {
	case errors.Is(err, wallet.ErrInvalidMnemonic):
		return "Invalid recovery phrase"
	case errors.Is(err, wallet.ErrUnsupportedChain):
		return "Unsupported chain: " + err.Error()
	case errors.Is(err, wallet.ErrUnsupportedPath):
		return "Unsupported derivation path: " + err.Error()
	case errors.Is(err, ErrNoActiveMnemonic):
		return "No active mnemonic; generate a wallet first"
	case errors.Is(err, ErrIndexOutOfRange):
		return "No wallet at that position"
	case errors.Is(err, ErrPersistenceCorrupt):
		return "Stored wallets were unreadable and have been ignored"
	case errors.Is(err, ErrSessionActive):
		return "Session already active: " + err.Error()
	default:
		return "Operation failed: " + err.Error()
	}
}
