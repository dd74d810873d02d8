package selection

import (
	"fmt"

	"github.com/corey/acnh/internal/ports"
)

// DefaultKey is the storage key the state blob lives under.
const DefaultKey = "ACNHCatalogLookup--Lookup"

// BackupSuffix is appended to the key when a blob that failed to load is
// set aside.
const BackupSuffix = ".bak"

// Load reads and migrates the state stored under key.
//
// The returned state is always usable and Initialized. A missing key yields an
// empty state and no error. Any read, parse or migration failure yields an
// empty state together with the error, so the caller can report it and carry
// on. Before returning such an error the unreadable blob is copied to
// key+BackupSuffix, because the next flush will overwrite key.
func Load(store ports.KVStore, key string) (State, error) {
	st := Empty()
	st.Initialized = true

	raw, ok, err := store.Get(key)
	if err != nil {
		return st, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return st, nil
	}

	loaded, err := Migrate([]byte(raw))
	if err != nil {
		if bErr := store.Set(key+BackupSuffix, raw); bErr != nil {
			return st, fmt.Errorf("%w (backup failed: %v)", err, bErr)
		}
		return st, err
	}

	loaded.Initialized = true
	return loaded, nil
}

// Save writes the persistent part of s under key in the current schema.
func Save(store ports.KVStore, key string, s State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := store.Set(key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
