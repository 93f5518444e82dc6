package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HexBytes is a byte slice that marshals to/from JSON as a "0x"-prefixed
// hex string, the same wire idiom the teacher's types package uses for
// every byte-slice field.
type HexBytes []byte

// String returns the "0x"-prefixed hex representation.
func (h HexBytes) String() string {
	if len(h) == 0 {
		return "0x"
	}
	return "0x" + hex.EncodeToString(h)
}

// MarshalJSON implements json.Marshaler.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler, accepting both "0x"-prefixed
// and bare hex strings.
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return h.SetString(s)
}

// SetString decodes a hex string (with or without "0x" prefix) into h.
func (h *HexBytes) SetString(s string) error {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if s == "" {
		*h = nil
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}
	*h = b
	return nil
}

// HexBytesFromString decodes a hex string into a HexBytes value.
func HexBytesFromString(s string) (HexBytes, error) {
	var h HexBytes
	if err := h.SetString(s); err != nil {
		return nil, err
	}
	return h, nil
}
