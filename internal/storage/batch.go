package storage

// Batch buffers writes and applies them together on Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}

type batchOp struct {
	key   []byte
	value []byte // nil means delete
}

func newPut(key, value []byte) batchOp {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	return batchOp{key: k, value: v}
}

func newDelete(key []byte) batchOp {
	k := make([]byte, len(key))
	copy(k, key)
	return batchOp{key: k}
}
