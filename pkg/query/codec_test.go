package query

import (
	"errors"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEncodeJSON_Golden(t *testing.T) {
	data, err := EncodeJSON([]FilterRule{
		{Column: "Name", Operator: OpContains, Value: "Jo", IgnoreCase: true},
		{Column: "Email", Operator: OpBeginsWith, Value: "admin", IgnoreCase: true},
		{Column: "Domain", Operator: OpEndsWith, Value: ".org", IgnoreCase: true},
		{Column: "Status", Operator: OpIsExactly, Value: "Active"},
		{Column: "Code", Operator: OpIsExactly, Value: "A%1", IgnoreCase: true},
		{Column: "Notes", Operator: OpLike, Value: "%50%off%", IgnoreCase: true},
	}, Options{})
	require.NoError(t, err)

	newGoldie(t).Assert(t, "encoded_filter", data)
}

func TestEncodeJSON_EmptyGolden(t *testing.T) {
	data, err := EncodeJSON(nil, Options{})
	require.NoError(t, err)

	newGoldie(t).Assert(t, "empty_filter", data)
}

func TestQueryFilter_UnmarshalJSON(t *testing.T) {
	var filter QueryFilter
	err := json.Unmarshal([]byte(`{"$and":[{"Name":{"$eq":"Jo"}},{"City":{"$iLike":"%ber%"}}]}`), &filter)
	require.NoError(t, err)

	assert.Equal(t, QueryFilter{And: []Condition{
		{Column: "Name", Comparison: Eq{Value: "Jo"}},
		{Column: "City", Comparison: ILike{Pattern: "%ber%"}},
	}}, filter)
}

func TestDecodeJSON_EmptyInputs(t *testing.T) {
	for _, input := range []string{``, `null`, `{}`, `{"$and":null}`, `{"$and":[]}`} {
		t.Run(input, func(t *testing.T) {
			rules, err := DecodeJSON([]byte(input), Options{})
			require.NoError(t, err)
			assert.NotNil(t, rules)
			assert.Empty(t, rules)
		})
	}
}

func TestDecodeJSON_UnsupportedKind(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"$and":[{"Name":{"$eq":"a"}},{"Age":{"$gt":"5"}}]}`), Options{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnsupportedComparisonKind))

	var unsupported *UnsupportedComparisonError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "Age", unsupported.Column)
	assert.Equal(t, "$gt", unsupported.Kind)
	assert.Contains(t, err.Error(), "condition 1")
}

func TestDecodeJSON_UnsupportedKindWinsOverOperandType(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"$and":[{"Age":{"$gt":5}}]}`), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedComparisonKind)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	tests := map[string]string{
		"not an object":    `{"$and":[1]}`,
		"null condition":   `{"$and":[null]}`,
		"two columns":      `{"$and":[{"a":{"$eq":"1"},"b":{"$eq":"2"}}]}`,
		"no column":        `{"$and":[{}]}`,
		"empty column":     `{"$and":[{"":{"$eq":"1"}}]}`,
		"two comparisons":  `{"$and":[{"a":{"$eq":"1","$iLike":"2"}}]}`,
		"no comparison":    `{"$and":[{"a":{}}]}`,
		"comparison value": `{"$and":[{"a":"x"}]}`,
		"numeric operand":  `{"$and":[{"a":{"$eq":1}}]}`,
		"null operand":     `{"$and":[{"a":{"$iLike":null}}]}`,
		"repeated column":  `{"$and":[{"a":{"$eq":"1"},"a":{"$iLike":"x"}}]}`,
		"repeated kind":    `{"$and":[{"a":{"$eq":"1","$eq":"2"}}]}`,
		"array condition":  `{"$and":[["a"]]}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(input), Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedCondition)
		})
	}
}

func TestCondition_MarshalJSONRejectsIncomplete(t *testing.T) {
	_, err := json.Marshal(Condition{Column: "a"})
	assert.Error(t, err)

	_, err = json.Marshal(Condition{Comparison: Eq{Value: "x"}})
	assert.Error(t, err)
}

func TestTranslator_ConcurrentUse(t *testing.T) {
	rules := []FilterRule{
		{Column: "Name", Operator: OpContains, Value: "Jo", IgnoreCase: true},
		{Column: "Status", Operator: OpIsExactly, Value: "Active"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			filter, err := EncodeFilters(rules, Options{})
			assert.NoError(t, err)

			decoded, err := DecodeFilters(&filter, Options{})
			assert.NoError(t, err)
			assert.Equal(t, rules, decoded)
		}()
	}
	wg.Wait()
}
