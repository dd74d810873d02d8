// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// KVStore is the persistence substrate for selection state: a flat string
// key/value space where each key holds one serialized blob.
//
// Backing stores (bbolt, sqlite) must make Set atomic per key. A crash
// mid-write must leave either the old or the new value, never a torn one.
type KVStore interface {
	// Get returns the value stored under key.
	// Returns "", false, nil if the key has never been set.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any prior value.
	Set(key, value string) error

	// Delete removes key.
	// Idempotent: deleting a missing key is not an error.
	Delete(key string) error
}
