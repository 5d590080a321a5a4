package storage

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/hdvault/internal/session"
)

// Namespace is the key prefix the vault's state lives under.
var Namespace = []byte("hdvault/")

// KVPort adapts a DB to the session's string key-value persistence.
type KVPort struct {
	db *PrefixDB
	// raw is the database that owns the lifecycle.
	raw DB
}

// NewKVPort wraps db. Keys are stored under Namespace.
func NewKVPort(db DB) *KVPort {
	return &KVPort{db: NewPrefixDB(db, Namespace), raw: db}
}

// Get returns the value stored at key. A missing key yields ok == false.
func (p *KVPort) Get(key string) (string, bool, error) {
	v, err := p.db.Get([]byte(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(v), true, nil
}

// Set stores value at key.
func (p *KVPort) Set(key, value string) error {
	if err := p.db.Put([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (p *KVPort) Remove(key string) error {
	if err := p.db.Delete([]byte(key)); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// WriteBatch applies ops atomically when the underlying DB supports
// batches.
func (p *KVPort) WriteBatch(ops []session.Op) error {
	b := p.db.NewBatch()
	for _, op := range ops {
		var err error
		if op.Remove {
			err = b.Delete([]byte(op.Key))
		} else {
			err = b.Put([]byte(op.Key), []byte(op.Value))
		}
		if err != nil {
			return fmt.Errorf("batch %s: %w", op.Key, err)
		}
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Keys lists every key in the vault namespace.
func (p *KVPort) Keys() ([]string, error) {
	var keys []string
	err := p.db.ForEach(nil, func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Wipe removes every key in the vault namespace, including any seal
// header.
func (p *KVPort) Wipe() error {
	if err := p.db.DeleteAll(); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (p *KVPort) Close() error {
	return p.raw.Close()
}
