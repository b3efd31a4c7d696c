package editor

import (
	"errors"
	"fmt"

	"github.com/mwantia/qfilter/pkg/db/store"
	"github.com/mwantia/qfilter/pkg/query"
	"github.com/mwantia/qfilter/pkg/widget"
)

var ErrUnknownField = errors.New("unknown column field")

// State is the form state of one filter editor.
type State struct {
	Settings     widget.Settings    `json:"settings"`
	DataSources  []store.DataSource `json:"dataSources,omitempty"`
	DataSource   *store.DataSource  `json:"dataSource,omitempty"`
	Columns      widget.Selection   `json:"columns"`
	ApplyFilters bool               `json:"applyFilters"`
	ShowFilters  bool               `json:"showFilters"`
	HideFilters  bool               `json:"hideFilters"`
	Filters      []query.FilterRule `json:"filters"`
	LoadingError string             `json:"loadingError,omitempty"`
}

// DataSourceID returns the id of the selected data source, if any.
func (s *State) DataSourceID() string {
	if s.DataSource == nil {
		return ""
	}
	return s.DataSource.ID
}

// Input converts the form state into what a result is computed from.
func (s *State) Input() widget.State {
	return widget.State{
		DataSourceID: s.DataSourceID(),
		ApplyFilters: s.ApplyFilters,
		HideFilters:  s.HideFilters,
		Columns:      s.Columns,
		Filters:      s.Filters,
	}
}

// SetApplyFilters toggles filtering. Switching it on with no rules adds
// the default rule.
func (s *State) SetApplyFilters(apply bool) {
	s.ApplyFilters = apply
	if apply && len(s.Filters) == 0 {
		s.addDefaultFilter()
	}
	s.ShowFilters = apply
}

// SelectDataSource binds the editor to source and drops the column
// selection and rules made for the previous one.
func (s *State) SelectDataSource(source *store.DataSource) {
	s.DataSource = source
	if source == nil {
		return
	}

	s.Columns = nil
	s.Filters = nil
	s.ensureFilter()
}

// UpdateSelectedColumns sets the columns chosen for field key; an empty
// list removes the key. The key must be declared in the settings, and
// only fields marked multiple take more than one column.
func (s *State) UpdateSelectedColumns(key string, values []string) error {
	field, ok := s.Settings.Field(key)
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownField, key)
	}
	if len(values) > 1 && !field.Multiple {
		return fmt.Errorf("field '%s' takes a single column, got %d", key, len(values))
	}

	s.Columns = s.Columns.Set(key, values)
	return nil
}

func (s *State) AddFilter(rule query.FilterRule) {
	s.Filters = append(s.Filters, rule)
}

func (s *State) UpdateFilter(index int, rule query.FilterRule) error {
	if index < 0 || index >= len(s.Filters) {
		return fmt.Errorf("filter index %d out of range", index)
	}
	s.Filters[index] = rule
	return nil
}

// RemoveFilter drops the rule at index. Removing the last rule while
// filters are shown puts the default rule back.
func (s *State) RemoveFilter(index int) error {
	if index < 0 || index >= len(s.Filters) {
		return fmt.Errorf("filter index %d out of range", index)
	}

	s.Filters = append(s.Filters[:index:index], s.Filters[index+1:]...)
	s.ensureFilter()
	return nil
}

func (s *State) ensureFilter() {
	if len(s.Filters) == 0 && s.ShowFilters && s.DataSource != nil {
		s.addDefaultFilter()
	}
}

func (s *State) addDefaultFilter() {
	if s.DataSource == nil || len(s.DataSource.Columns) == 0 {
		return
	}

	s.Filters = append(s.Filters, query.FilterRule{
		Column:     s.DataSource.Columns[0],
		Operator:   query.OpIsExactly,
		Value:      "",
		IgnoreCase: false,
	})
}
