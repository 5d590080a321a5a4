package session

import "errors"

var (
	// ErrNoActiveMnemonic is returned by AddAccount before a session
	// mnemonic exists.
	ErrNoActiveMnemonic = errors.New("no active mnemonic")

	// ErrIndexOutOfRange is returned for a wallet index outside the
	// collection.
	ErrIndexOutOfRange = errors.New("wallet index out of range")

	// ErrPersistenceCorrupt is reported when hydration finds malformed
	// stored data.
	ErrPersistenceCorrupt = errors.New("persisted wallet data is corrupt")

	// ErrSessionActive is returned when an operation needs an empty
	// collection but wallets exist.
	ErrSessionActive = errors.New("session already has wallets")
)
