package query

// Operator is the editor-facing name of a rule condition.
type Operator string

const (
	OpIsExactly  Operator = "is-exactly"
	OpContains   Operator = "contains"
	OpBeginsWith Operator = "begins-with"
	OpEndsWith   Operator = "ends-with"
	OpLike       Operator = "like"
)

// Operators lists every operator in the order the editor offers them.
var Operators = []Operator{OpIsExactly, OpContains, OpBeginsWith, OpEndsWith, OpLike}

func (o Operator) String() string {
	return string(o)
}

// FilterRule is a single condition as the editor holds it.
//
// Value is the raw user input. For every operator except OpLike it is a
// literal without wildcard syntax; for OpLike it is a user pattern whose
// first and last characters may be wildcards.
type FilterRule struct {
	Column     string   `json:"column"     validate:"required"`
	Operator   Operator `json:"operator"   validate:"required,oneof=is-exactly contains begins-with ends-with like"`
	Value      string   `json:"value"`
	IgnoreCase bool     `json:"ignoreCase"`
}

// Strict reports whether the rule maps to case-sensitive equality.
func (r FilterRule) Strict() bool {
	return r.Operator == OpIsExactly && !r.IgnoreCase
}

// Options is passed to both DecodeFilters and EncodeFilters. It carries no
// settings yet and is the place for per-column metadata once there is any.
type Options struct{}
