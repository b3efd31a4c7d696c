package query

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

var null = []byte("null")

type wireFilter struct {
	And []Condition `json:"$and"`
}

// MarshalJSON writes the filter as {"$and":[...]}; an empty filter still
// carries an empty list.
func (qf QueryFilter) MarshalJSON() ([]byte, error) {
	and := qf.And
	if and == nil {
		and = []Condition{}
	}
	return json.Marshal(wireFilter{And: and})
}

// UnmarshalJSON accepts null, a missing or null $and, and lists of
// single-column conditions.
func (qf *QueryFilter) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), null) {
		qf.And = nil
		return nil
	}

	var raw struct {
		And []json.RawMessage `json:"$and"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse query filter: %w", err)
	}

	conditions := make([]Condition, 0, len(raw.And))
	for i, entry := range raw.And {
		var cond Condition
		if err := cond.UnmarshalJSON(entry); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
		conditions = append(conditions, cond)
	}

	qf.And = conditions
	return nil
}

// MarshalJSON writes {"<column>":{"<kind>":"<operand>"}}.
func (c Condition) MarshalJSON() ([]byte, error) {
	if c.Column == "" {
		return nil, fmt.Errorf("%w: empty column", ErrMalformedCondition)
	}
	if c.Comparison == nil {
		return nil, fmt.Errorf("%w: column %q has no comparison", ErrMalformedCondition, c.Column)
	}

	return json.Marshal(map[string]map[string]string{
		c.Column: {c.Comparison.Kind(): c.Comparison.Operand()},
	})
}

// UnmarshalJSON reads {"<column>":{"<kind>":"<operand>"}}. Both objects
// must hold exactly one key; repeated keys are rejected, not collapsed.
func (c *Condition) UnmarshalJSON(data []byte) error {
	column, body, n, err := readSingleEntry(data)
	if err != nil {
		return fmt.Errorf("%w: expected an object keyed by column", ErrMalformedCondition)
	}
	if n != 1 {
		return fmt.Errorf("%w: expected exactly one column, got %d", ErrMalformedCondition, n)
	}
	if column == "" {
		return fmt.Errorf("%w: empty column", ErrMalformedCondition)
	}

	kind, operand, n, err := readSingleEntry(body)
	if err != nil {
		return fmt.Errorf("%w: column %q must map to a comparison object", ErrMalformedCondition, column)
	}
	if n != 1 {
		return fmt.Errorf("%w: column %q must have exactly one comparison, got %d", ErrMalformedCondition, column, n)
	}
	if kind != KindEq && kind != KindILike {
		return &UnsupportedComparisonError{Column: column, Kind: kind}
	}

	if bytes.Equal(bytes.TrimSpace(operand), null) {
		return fmt.Errorf("%w: %s comparand of column %q is null", ErrMalformedCondition, kind, column)
	}
	var value string
	if err := json.Unmarshal(operand, &value); err != nil {
		return fmt.Errorf("%w: %s comparand of column %q must be a string", ErrMalformedCondition, kind, column)
	}

	cmp, _ := newComparison(kind, value)
	c.Column = column
	c.Comparison = cmp
	return nil
}

// readSingleEntry walks a JSON object in document order and returns its
// first key and value along with the number of keys seen, duplicates
// included.
func readSingleEntry(data []byte) (string, json.RawMessage, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return "", nil, 0, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", nil, 0, fmt.Errorf("not an object")
	}

	var (
		key   string
		value json.RawMessage
		n     int
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, 0, err
		}
		k, ok := tok.(string)
		if !ok {
			return "", nil, 0, fmt.Errorf("object key must be a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", nil, 0, err
		}
		if n == 0 {
			key, value = k, raw
		}
		n++
	}

	if _, err := dec.Token(); err != nil {
		return "", nil, 0, err
	}
	return key, value, n, nil
}

// DecodeJSON parses a persisted filter and decodes it into rules.
func DecodeJSON(data []byte, opts Options) ([]FilterRule, error) {
	var filter QueryFilter
	if len(bytes.TrimSpace(data)) > 0 {
		if err := filter.UnmarshalJSON(data); err != nil {
			return nil, err
		}
	}
	return DecodeFilters(&filter, opts)
}

// EncodeJSON encodes rules and writes the resulting filter.
func EncodeJSON(rules []FilterRule, opts Options) ([]byte, error) {
	filter, err := EncodeFilters(rules, opts)
	if err != nil {
		return nil, err
	}
	return json.Marshal(filter)
}
