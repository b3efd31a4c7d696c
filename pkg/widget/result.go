package widget

import (
	"errors"
	"fmt"

	"github.com/mwantia/qfilter/pkg/query"
)

const diagnosticPrefix = "Unable to compute result: "

var ErrNoDataSource = errors.New("no data source selected")

// State is the editor input a result is computed from.
type State struct {
	DataSourceID string             `json:"dataSourceId"`
	ApplyFilters bool               `json:"applyFilters"`
	HideFilters  bool               `json:"hideFilters"`
	Columns      Selection          `json:"columns"`
	Filters      []query.FilterRule `json:"filters"`
}

// Result is the saved outcome of the editor.
type Result struct {
	ApplyFilters   bool              `json:"applyFilters"`
	HideFilters    bool              `json:"hideFilters"`
	DataSourceID   string            `json:"dataSourceId"`
	Filters        query.QueryFilter `json:"filters"`
	Columns        Selection         `json:"columns"`
	ColumnsCompact []string          `json:"columnsCompact"`
}

// ComputeResult builds the result for state. It never fails: when the
// result cannot be built the returned payload carries a diagnostic
// message instead, so saving can still go ahead.
func ComputeResult(state State, opts query.Options) Payload {
	result, err := computeResult(state, opts)
	if err != nil {
		return Payload{Diagnostic: diagnosticPrefix + err.Error()}
	}
	return Payload{Result: result}
}

func computeResult(state State, opts query.Options) (*Result, error) {
	if state.DataSourceID == "" {
		return nil, ErrNoDataSource
	}

	// Rules are kept while filters are switched off but not persisted.
	filter := query.QueryFilter{And: []query.Condition{}}
	if state.ApplyFilters {
		encoded, err := query.EncodeFilters(state.Filters, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		filter = encoded
	}

	columns := state.Columns
	if columns == nil {
		columns = Selection{}
	}

	return &Result{
		ApplyFilters:   state.ApplyFilters,
		HideFilters:    state.HideFilters,
		DataSourceID:   state.DataSourceID,
		Filters:        filter,
		Columns:        columns,
		ColumnsCompact: CompactColumns(columns),
	}, nil
}
