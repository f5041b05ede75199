package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PinInput accepts a pin sent either as a JSON number or a string and keeps
// the raw text for domain.NormalizePin.
type PinInput string

func (p *PinInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PinInput(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("pin must be a number or string: %w", err)
	}
	*p = PinInput(n.String())
	return nil
}

func (p PinInput) String() string { return string(p) }
