package app

import "context"

// KV is the persistent key-value store that holds the serialized task lists.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(context.Context, string) (string, bool, error)
	// Put writes every entry atomically.
	Put(context.Context, ...KVEntry) error
}

// KVEntry is one key/value pair written through KV.Put.
type KVEntry struct {
	Key   string
	Value string
}
