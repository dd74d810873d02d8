package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidID is returned when a JSON value cannot be used as an item id.
var ErrInvalidID = errors.New("invalid item id")

// ID identifies a catalog entry. Catalog exports use either JSON numbers or
// strings for ids; both decode into the same string-backed form.
//
// Encoding is symmetric with the exports: an id that is a canonical integer
// (no sign other than a leading '-', no leading zeros) marshals as a JSON
// number, everything else as a JSON string.
type ID string

// UnmarshalJSON accepts a JSON number or a non-empty JSON string.
// null, booleans, objects and arrays are rejected.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ErrInvalidID
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		if s == "" {
			return fmt.Errorf("%w: empty string", ErrInvalidID)
		}
		*id = ID(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var n json.Number
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		*id = ID(n.String())
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidID, string(b))
	}
}

// MarshalJSON writes canonical integers as numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if isCanonicalInt(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

func isCanonicalInt(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" || s == "0" {
			return false
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
