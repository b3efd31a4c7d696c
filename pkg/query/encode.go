package query

import (
	"fmt"

	"github.com/mwantia/qfilter/internal/validation"
)

// EncodeFilters turns editor rules into the filter that gets persisted, one
// condition per rule and in the same order.
//
// Rules missing a column or carrying an unknown operator are a caller bug;
// the first one found aborts the encode with ErrInvalidRule.
func EncodeFilters(rules []FilterRule, _ Options) (QueryFilter, error) {
	conditions := make([]Condition, 0, len(rules))

	for i, rule := range rules {
		if err := validation.Validate(rule); err != nil {
			return QueryFilter{}, fmt.Errorf("%w at index %d: %v", ErrInvalidRule, i, err)
		}

		conditions = append(conditions, Condition{
			Column:     rule.Column,
			Comparison: encodeRule(rule),
		})
	}

	return QueryFilter{And: conditions}, nil
}

func encodeRule(rule FilterRule) Comparison {
	switch rule.Operator {
	case OpIsExactly:
		if !rule.IgnoreCase {
			return Eq{Value: rule.Value}
		}
		return ILike{Pattern: escapeFirstWildcardOnly(rule.Value)}
	case OpContains:
		return ILike{Pattern: wildcard + escapeFirstWildcardOnly(rule.Value) + wildcard}
	case OpBeginsWith:
		return ILike{Pattern: escapeFirstWildcardOnly(rule.Value) + wildcard}
	case OpEndsWith:
		return ILike{Pattern: wildcard + escapeFirstWildcardOnly(rule.Value)}
	default:
		return ILike{Pattern: escapeLikePattern(rule.Value)}
	}
}
