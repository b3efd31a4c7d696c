package widget

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// SelectedColumns holds the columns chosen for one field.
type SelectedColumns struct {
	Key    string
	Values []string
}

// Selection maps field keys to chosen columns and keeps the order in which
// keys were first set.
type Selection []SelectedColumns

// Get returns the columns chosen for key.
func (s Selection) Get(key string) ([]string, bool) {
	for _, entry := range s {
		if entry.Key == key {
			return entry.Values, true
		}
	}
	return nil, false
}

// Set replaces the columns of key, or removes key when values is empty.
// The receiver is not modified.
func (s Selection) Set(key string, values []string) Selection {
	out := make(Selection, 0, len(s)+1)
	found := false

	for _, entry := range s {
		if entry.Key != key {
			out = append(out, entry)
			continue
		}
		found = true
		if len(values) > 0 {
			out = append(out, SelectedColumns{Key: key, Values: append([]string(nil), values...)})
		}
	}

	if !found && len(values) > 0 {
		out = append(out, SelectedColumns{Key: key, Values: append([]string(nil), values...)})
	}

	return out
}

// Keys returns the field keys in order.
func (s Selection) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, entry := range s {
		keys = append(keys, entry.Key)
	}
	return keys
}

// CompactColumns flattens a selection in order. Duplicates are kept.
func CompactColumns(s Selection) []string {
	compact := []string{}
	for _, entry := range s {
		compact = append(compact, entry.Values...)
	}
	return compact
}

// MarshalJSON writes an object keyed by field in selection order.
func (s Selection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		values := entry.Values
		if values == nil {
			values = []string{}
		}
		value, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object whose values are a column name or a list
// of column names. Empty values and nulls are dropped.
func (s *Selection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read column selection: %w", err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("column selection must be an object")
	}

	out := Selection{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read column selection: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("column selection key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to read columns of %q: %w", key, err)
		}

		values, err := parseColumnValues(raw)
		if err != nil {
			return fmt.Errorf("columns of %q: %w", key, err)
		}
		out = out.Set(key, values)
	}

	*s = out
	return nil
}

func parseColumnValues(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}
		if single == "" {
			return nil, nil
		}
		return []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, fmt.Errorf("expected a column name or a list of column names")
	}
	return many, nil
}
