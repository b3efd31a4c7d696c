package query

const (
	KindEq    = "$eq"
	KindILike = "$iLike"
)

// Comparison is the per-column primitive of a condition.
//
// This is a sealed interface: only Eq and ILike implement it, so decoders
// can switch over it exhaustively.
type Comparison interface {
	// Kind returns the persisted name of the primitive.
	Kind() string
	// Operand returns the comparand or pattern.
	Operand() string

	comparisonNode()
}

// Eq is case-sensitive strict equality.
type Eq struct {
	Value string
}

func (Eq) comparisonNode() {}

func (Eq) Kind() string { return KindEq }

func (e Eq) Operand() string { return e.Value }

// ILike is a case-insensitive pattern match.
type ILike struct {
	Pattern string
}

func (ILike) comparisonNode() {}

func (ILike) Kind() string { return KindILike }

func (l ILike) Operand() string { return l.Pattern }

// newComparison builds the primitive persisted under kind.
func newComparison(kind, operand string) (Comparison, bool) {
	switch kind {
	case KindEq:
		return Eq{Value: operand}, true
	case KindILike:
		return ILike{Pattern: operand}, true
	default:
		return nil, false
	}
}

// Condition applies a comparison to one column.
type Condition struct {
	Column     string
	Comparison Comparison
}

// QueryFilter is the persisted AND conjunction of conditions. Order is
// significant: it is the display order of the rules it was encoded from.
type QueryFilter struct {
	And []Condition
}

// Len returns the number of conditions; a nil filter has none.
func (qf *QueryFilter) Len() int {
	if qf == nil {
		return 0
	}
	return len(qf.And)
}
