package widget

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Payload is either a computed Result or, when computing failed, the
// diagnostic message that is saved in its place.
type Payload struct {
	Result     *Result
	Diagnostic string
}

// Failed reports whether the payload carries a diagnostic.
func (p Payload) Failed() bool {
	return p.Result == nil && p.Diagnostic != ""
}

// Empty reports whether nothing was ever computed.
func (p Payload) Empty() bool {
	return p.Result == nil && p.Diagnostic == ""
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch {
	case p.Result != nil:
		return json.Marshal(p.Result)
	case p.Diagnostic != "":
		return json.Marshal(p.Diagnostic)
	default:
		return []byte("null"), nil
	}
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*p = Payload{}

	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return nil
	case trimmed[0] == '"':
		return json.Unmarshal(trimmed, &p.Diagnostic)
	case trimmed[0] == '{':
		var result Result
		if err := json.Unmarshal(trimmed, &result); err != nil {
			return fmt.Errorf("failed to parse result: %w", err)
		}
		p.Result = &result
		return nil
	default:
		return fmt.Errorf("result must be an object or a diagnostic string")
	}
}

// ParsePayload reads a persisted payload.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := p.UnmarshalJSON(data); err != nil {
		return Payload{}, err
	}
	return p, nil
}
