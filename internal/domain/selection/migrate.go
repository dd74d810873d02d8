package selection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/corey/acnh/internal/domain/catalog"
)

// CurrentVersion is the schema written by Save.
const CurrentVersion = "v2"

// LegacyArrayVersion names the original unversioned layout: a bare JSON
// array of owned ids.
const LegacyArrayVersion = "v0"

var (
	// ErrUnknownVersion is returned when a blob carries a schema version with
	// no registered migration.
	ErrUnknownVersion = errors.New("unknown schema version")
	// ErrCorruptState is returned when a blob does not have the exact shape
	// its version declares.
	ErrCorruptState = errors.New("corrupt selection state")
)

// MigrateFunc maps a blob of one schema version to the current in-memory
// shape. Migrations are strict: unknown fields, missing fields, null ids and
// overlapping sets are rejected, never defaulted.
type MigrateFunc func(blob []byte) (State, error)

// migrations is the closed table of supported schemas. Every version ever
// written must have an entry.
var migrations = map[string]MigrateFunc{
	LegacyArrayVersion: migrateV0,
	"v1":               migrateV1,
	CurrentVersion:     decodeV2,
}

// Versions returns the registered schema versions, sorted.
func Versions() []string {
	out := make([]string, 0, len(migrations))
	for v := range migrations {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Migrate detects the schema version of blob and converts it to the current
// shape. The returned state is not Initialized; MigratedFrom is set when the
// blob was not already current.
func Migrate(blob []byte) (State, error) {
	version, err := detectVersion(blob)
	if err != nil {
		return Empty(), err
	}

	migrate, ok := migrations[version]
	if !ok {
		return Empty(), fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}

	st, err := migrate(blob)
	if err != nil {
		return Empty(), fmt.Errorf("migrate %s: %w", version, err)
	}
	st.Version = CurrentVersion
	if version != CurrentVersion {
		st.MigratedFrom = version
	}
	return st, nil
}

// detectVersion reads the version tag. A bare array is the legacy layout.
func detectVersion(blob []byte) (string, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty blob", ErrCorruptState)
	}
	if trimmed[0] == '[' {
		return LegacyArrayVersion, nil
	}

	var envelope struct {
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if len(envelope.Version) == 0 {
		return "", fmt.Errorf("%w: missing version", ErrCorruptState)
	}
	var version string
	if err := json.Unmarshal(envelope.Version, &version); err != nil {
		return "", fmt.Errorf("%w: version is not a string: %s", ErrCorruptState, envelope.Version)
	}
	return version, nil
}

// strictDecode decodes exactly one JSON value into v, rejecting unknown
// fields and trailing data.
func strictDecode(blob []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: trailing data", ErrCorruptState)
	}
	return nil
}

// migrateV0: bare array of owned ids.
func migrateV0(blob []byte) (State, error) {
	var lookup []catalog.ID
	if err := strictDecode(blob, &lookup); err != nil {
		return Empty(), err
	}
	st := Empty()
	st.Catalog = NewIDSet(lookup...)
	return st, nil
}

// migrateV1: {version, lookup}. The single undifferentiated set predates the
// wishlist and is read as owned items.
func migrateV1(blob []byte) (State, error) {
	var v1 struct {
		Version string        `json:"version"`
		Lookup  *[]catalog.ID `json:"lookup"`
	}
	if err := strictDecode(blob, &v1); err != nil {
		return Empty(), err
	}
	if v1.Lookup == nil {
		return Empty(), fmt.Errorf("%w: missing lookup", ErrCorruptState)
	}
	st := Empty()
	st.Catalog = NewIDSet(*v1.Lookup...)
	return st, nil
}

// blobV2 is the current on-disk layout.
type blobV2 struct {
	Version  string        `json:"version"`
	Catalog  *[]catalog.ID `json:"catalog"`
	Wishlist *[]catalog.ID `json:"wishlist"`
}

func decodeV2(blob []byte) (State, error) {
	var v2 blobV2
	if err := strictDecode(blob, &v2); err != nil {
		return Empty(), err
	}
	if v2.Catalog == nil {
		return Empty(), fmt.Errorf("%w: missing catalog", ErrCorruptState)
	}
	if v2.Wishlist == nil {
		return Empty(), fmt.Errorf("%w: missing wishlist", ErrCorruptState)
	}

	st := Empty()
	st.Catalog = NewIDSet(*v2.Catalog...)
	st.Wishlist = NewIDSet(*v2.Wishlist...)
	for id := range st.Wishlist {
		if st.Catalog.Has(id) {
			return Empty(), fmt.Errorf("%w: id %s is both owned and wished for", ErrCorruptState, id)
		}
	}
	return st, nil
}

// Encode serializes the persistent part of s in the current schema. Ids are
// sorted so equal states produce identical blobs.
func Encode(s State) ([]byte, error) {
	catalogIDs := s.Catalog.Sorted()
	wishlistIDs := s.Wishlist.Sorted()
	data, err := json.Marshal(blobV2{
		Version:  CurrentVersion,
		Catalog:  &catalogIDs,
		Wishlist: &wishlistIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("encode selection state: %w", err)
	}
	return data, nil
}
