package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFilters_Empty(t *testing.T) {
	rules, err := DecodeFilters(nil, Options{})
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)

	rules, err = DecodeFilters(&QueryFilter{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, rules)

	rules, err = DecodeFilters(&QueryFilter{And: []Condition{}}, Options{})
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestDecodeFilters_StrictEquality(t *testing.T) {
	rules, err := DecodeFilters(&QueryFilter{And: []Condition{
		{Column: "Name", Comparison: Eq{Value: "abc"}},
	}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []FilterRule{
		{Column: "Name", Operator: OpIsExactly, Value: "abc", IgnoreCase: false},
	}, rules)
}

func TestDecodeFilters_StrictEqualityKeepsWildcards(t *testing.T) {
	rules, err := DecodeFilters(&QueryFilter{And: []Condition{
		{Column: "Name", Comparison: Eq{Value: `%a\%b%`}},
	}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, `%a\%b%`, rules[0].Value)
	assert.True(t, rules[0].Strict())
}

func TestDecodeFilters_Classification(t *testing.T) {
	tests := []struct {
		pattern  string
		operator Operator
		value    string
	}{
		{"abc", OpIsExactly, "abc"},
		{"abc%", OpBeginsWith, "abc"},
		{"%abc", OpEndsWith, "abc"},
		{"%abc%", OpContains, "abc"},
		{"", OpIsExactly, ""},
		{"%", OpContains, ""},
		{"%%", OpContains, ""},
		{"%%abc", OpEndsWith, "%abc"},
		{"a%b", OpIsExactly, "a%b"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			rules, err := DecodeFilters(&QueryFilter{And: []Condition{
				{Column: "col", Comparison: ILike{Pattern: tt.pattern}},
			}}, Options{})
			require.NoError(t, err)
			require.Len(t, rules, 1)

			assert.Equal(t, FilterRule{
				Column:     "col",
				Operator:   tt.operator,
				Value:      tt.value,
				IgnoreCase: true,
			}, rules[0])
		})
	}
}

func TestDecodeFilters_EscapedWildcardIsLike(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
	}{
		{`a\%b`, "a%b"},
		{`%a\%b%`, "%a%b%"},
		{`\%`, "%"},
		// only the first escape is undone
		{`a\%b\%c`, `a%b\%c`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			rules, err := DecodeFilters(&QueryFilter{And: []Condition{
				{Column: "col", Comparison: ILike{Pattern: tt.pattern}},
			}}, Options{})
			require.NoError(t, err)

			assert.Equal(t, FilterRule{Column: "col", Operator: OpLike, Value: tt.value, IgnoreCase: true}, rules[0])
		})
	}
}

func TestDecodeFilters_PreservesOrder(t *testing.T) {
	filter := &QueryFilter{And: []Condition{
		{Column: "c", Comparison: ILike{Pattern: "%x"}},
		{Column: "a", Comparison: Eq{Value: "y"}},
		{Column: "c", Comparison: ILike{Pattern: "z%"}},
	}}

	rules, err := DecodeFilters(filter, Options{})
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, "c", rules[0].Column)
	assert.Equal(t, OpEndsWith, rules[0].Operator)
	assert.Equal(t, "a", rules[1].Column)
	assert.Equal(t, OpIsExactly, rules[1].Operator)
	assert.Equal(t, "c", rules[2].Column)
	assert.Equal(t, OpBeginsWith, rules[2].Operator)
}

func TestDecodeFilters_MalformedCondition(t *testing.T) {
	_, err := DecodeFilters(&QueryFilter{And: []Condition{
		{Column: "ok", Comparison: Eq{Value: "1"}},
		{Column: "", Comparison: Eq{Value: "2"}},
	}}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedCondition))
	assert.Contains(t, err.Error(), "condition 1")

	_, err = DecodeFilters(&QueryFilter{And: []Condition{{Column: "x"}}}, Options{})
	assert.ErrorIs(t, err, ErrMalformedCondition)
}
