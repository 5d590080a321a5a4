package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Klingon-tech/hdvault/internal/wallet"
)

// Persisted keys. The session is the only writer of these keys.
const (
	KeyWallets  = "wallets"
	KeyMnemonic = "mnemonic"
	KeyPaths    = "paths"
	KeyCursor   = "cursor"
	KeyChain    = "chain"
)

// snapshot is the state restored from, or written to, persistence.
type snapshot struct {
	chain    wallet.Chain
	hasChain bool
	mnemonic string
	// cursors holds the next account index per chain.
	cursors map[wallet.Chain]uint32
	entries []Entry
}

// collectionOps renders the wallets and their aligned path types.
func (s snapshot) collectionOps() ([]Op, error) {
	wallets := make([]wallet.Wallet, len(s.entries))
	paths := make([]string, len(s.entries))
	for i, e := range s.entries {
		wallets[i] = e.Wallet
		paths[i] = e.Chain.Selector()
	}

	walletsJSON, err := json.Marshal(wallets)
	if err != nil {
		return nil, fmt.Errorf("encode wallets: %w", err)
	}
	pathsJSON, err := json.Marshal(paths)
	if err != nil {
		return nil, fmt.Errorf("encode paths: %w", err)
	}
	return []Op{
		{Key: KeyWallets, Value: string(walletsJSON)},
		{Key: KeyPaths, Value: string(pathsJSON)},
	}, nil
}

// encode renders the full session state as a batch of writes.
func (s snapshot) encode() ([]Op, error) {
	ops, err := s.collectionOps()
	if err != nil {
		return nil, err
	}
	words := wallet.SplitMnemonic(s.mnemonic)
	if words == nil {
		words = []string{}
	}
	mnemonicJSON, err := json.Marshal(words)
	if err != nil {
		return nil, fmt.Errorf("encode mnemonic: %w", err)
	}
	cursors := make(map[string]uint32, len(s.cursors))
	for chain, next := range s.cursors {
		cursors[chain.Selector()] = next
	}
	cursorJSON, err := json.Marshal(cursors)
	if err != nil {
		return nil, fmt.Errorf("encode cursor: %w", err)
	}
	ops = append(ops,
		Op{Key: KeyMnemonic, Value: string(mnemonicJSON)},
		Op{Key: KeyCursor, Value: string(cursorJSON)},
	)
	if s.hasChain {
		ops = append(ops, Op{Key: KeyChain, Value: s.chain.Selector()})
	}
	return ops, nil
}

// clearOps removes every session key.
func clearOps() []Op {
	return []Op{
		{Key: KeyWallets, Remove: true},
		{Key: KeyMnemonic, Remove: true},
		{Key: KeyPaths, Remove: true},
		{Key: KeyCursor, Remove: true},
		{Key: KeyChain, Remove: true},
	}
}

// load reads the persisted session. found is false when any required key
// is missing, or when the collection is empty and no mnemonic is retained.
// A read failure is returned as-is and malformed data wraps
// ErrPersistenceCorrupt.
func load(p Persistence) (snap snapshot, found bool, err error) {
	raw := make(map[string]string, 5)
	for _, key := range []string{KeyWallets, KeyMnemonic, KeyPaths, KeyCursor, KeyChain} {
		v, ok, err := p.Get(key)
		if err != nil {
			return snapshot{}, false, fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			raw[key] = v
		}
	}
	for _, key := range []string{KeyWallets, KeyMnemonic, KeyPaths} {
		if _, ok := raw[key]; !ok {
			return snapshot{}, false, nil
		}
	}

	snap, err = decode(raw)
	if err != nil {
		return snapshot{}, false, fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}
	if len(snap.entries) == 0 && snap.mnemonic == "" {
		return snapshot{}, false, nil
	}
	return snap, true, nil
}

func decode(raw map[string]string) (snapshot, error) {
	var wallets []wallet.Wallet
	if err := json.Unmarshal([]byte(raw[KeyWallets]), &wallets); err != nil {
		return snapshot{}, fmt.Errorf("wallets: %v", err)
	}
	var words []string
	if err := json.Unmarshal([]byte(raw[KeyMnemonic]), &words); err != nil {
		return snapshot{}, fmt.Errorf("mnemonic: %v", err)
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw[KeyPaths]), &paths); err != nil {
		return snapshot{}, fmt.Errorf("paths: %v", err)
	}
	if len(wallets) != len(paths) {
		return snapshot{}, fmt.Errorf("%d wallets but %d path types", len(wallets), len(paths))
	}
	if len(words) == 0 {
		if len(wallets) > 0 {
			return snapshot{}, fmt.Errorf("mnemonic: %v", wallet.ErrInvalidMnemonic)
		}
		return snapshot{}, nil
	}
	if !wallet.ValidateWords(words) {
		return snapshot{}, fmt.Errorf("mnemonic: %v", wallet.ErrInvalidMnemonic)
	}

	snap := snapshot{mnemonic: strings.Join(words, " ")}
	var err error
	if snap.cursors, err = decodeCursors(raw); err != nil {
		return snapshot{}, err
	}
	if v, ok := raw[KeyChain]; ok {
		chain, err := wallet.ParseChain(v)
		if err != nil {
			return snapshot{}, fmt.Errorf("chain: %v", err)
		}
		snap.chain, snap.hasChain = chain, true
	}

	// Every wallet deleted: only the phrase and cursors are retained.
	if len(wallets) == 0 {
		return snap, nil
	}

	snap.entries = make([]Entry, len(wallets))
	seen := make(map[uint32]bool, len(wallets))
	var next uint32
	for i, w := range wallets {
		chain, err := wallet.ParseChain(paths[i])
		if err != nil {
			return snapshot{}, fmt.Errorf("path type %d: %v", i, err)
		}
		if i == 0 && !snap.hasChain {
			snap.chain, snap.hasChain = chain, true
		}
		if chain != snap.chain {
			return snapshot{}, fmt.Errorf("wallet %d is %s, session is %s", i, chain, snap.chain)
		}
		if w.Mnemonic != snap.mnemonic {
			return snapshot{}, fmt.Errorf("wallet %d belongs to a different mnemonic", i)
		}
		if err := wallet.ValidateWallet(chain, w); err != nil {
			return snapshot{}, fmt.Errorf("wallet %d: %v", i, err)
		}

		account, _ := w.Account()
		if seen[account] {
			return snapshot{}, fmt.Errorf("wallet %d reuses account %d", i, account)
		}
		seen[account] = true
		if account >= next {
			next = account + 1
		}
		snap.entries[i] = Entry{Wallet: w, Chain: chain}
	}
	if next > snap.cursors[snap.chain] {
		snap.cursors[snap.chain] = next
	}
	return snap, nil
}

// decodeCursors parses the optional cursor key: a JSON object from chain
// selector to next account index.
func decodeCursors(raw map[string]string) (map[wallet.Chain]uint32, error) {
	cursors := make(map[wallet.Chain]uint32)
	v, ok := raw[KeyCursor]
	if !ok {
		return cursors, nil
	}
	var stored map[string]uint32
	if err := json.Unmarshal([]byte(v), &stored); err != nil {
		return nil, fmt.Errorf("cursor: %v", err)
	}
	for selector, next := range stored {
		chain, err := wallet.ParseChain(selector)
		if err != nil {
			return nil, fmt.Errorf("cursor: %v", err)
		}
		if next > wallet.MaxAccountIndex+1 {
			return nil, fmt.Errorf("cursor: %s index %d out of range", selector, next)
		}
		cursors[chain] = next
	}
	return cursors, nil
}
