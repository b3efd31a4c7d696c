package query

import "fmt"

// DecodeFilters turns a persisted filter back into editor rules, one rule
// per condition and in the same order. A nil or empty filter yields an empty
// list. Any condition that cannot be decoded aborts the whole decode.
func DecodeFilters(filter *QueryFilter, _ Options) ([]FilterRule, error) {
	rules := make([]FilterRule, 0, filter.Len())
	if filter == nil {
		return rules, nil
	}

	for i, cond := range filter.And {
		rule, err := decodeCondition(cond)
		if err != nil {
			return nil, fmt.Errorf("failed to decode condition %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func decodeCondition(cond Condition) (FilterRule, error) {
	if cond.Column == "" {
		return FilterRule{}, fmt.Errorf("%w: empty column", ErrMalformedCondition)
	}

	rule := FilterRule{Column: cond.Column}

	switch cmp := cond.Comparison.(type) {
	case Eq:
		rule.Operator = OpIsExactly
		rule.Value = cmp.Value
	case ILike:
		rule.IgnoreCase = true
		rule.Operator, rule.Value = classifyPattern(cmp.Pattern)
	case nil:
		return FilterRule{}, fmt.Errorf("%w: column %q has no comparison", ErrMalformedCondition, cond.Column)
	default:
		return FilterRule{}, &UnsupportedComparisonError{Column: cond.Column, Kind: cmp.Kind()}
	}

	return rule, nil
}
