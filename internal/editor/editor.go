package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/mwantia/qfilter/pkg/db/models"
	"github.com/mwantia/qfilter/pkg/db/store"
	"github.com/mwantia/qfilter/pkg/log"
	"github.com/mwantia/qfilter/pkg/query"
	"github.com/mwantia/qfilter/pkg/widget"
)

var ErrMissingWidgetID = errors.New("widget id is required")

// Service loads and saves filter editor instances.
type Service struct {
	store   store.MetadataStore
	catalog store.Catalog
	log     log.LoggerService
	opts    query.Options
}

func NewService(ms store.MetadataStore, catalog store.Catalog, logger log.LoggerService) *Service {
	return &Service{
		store:   ms,
		catalog: catalog,
		log:     logger.Named("editor"),
		opts:    query.Options{},
	}
}

// Load rebuilds the form state of a widget from what was last saved. An
// unknown widget yields a blank form. A failing catalog lookup is kept in
// State.LoadingError; filters that cannot be decoded fail the load.
func (s *Service) Load(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrMissingWidgetID
	}

	instance, err := s.Instance(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Debug("Widget '%s' not saved yet, starting blank", id)

		state := &State{}
		s.loadDataSources(ctx, state, "")
		return state, nil
	}
	if err != nil {
		return nil, err
	}

	state := &State{Settings: instance.Settings}
	dataSourceID := ""

	switch {
	case instance.Result.Result != nil:
		result := instance.Result.Result

		rules, err := query.DecodeFilters(&result.Filters, s.opts)
		if err != nil {
			return nil, fmt.Errorf("failed to decode filters of widget '%s': %w", id, err)
		}

		state.Filters = rules
		state.Columns = result.Columns
		state.ApplyFilters = result.ApplyFilters
		state.ShowFilters = result.ApplyFilters
		state.HideFilters = result.HideFilters
		dataSourceID = result.DataSourceID
	case instance.Result.Failed():
		s.log.Warn("Widget '%s' has no usable result: %s", id, instance.Result.Diagnostic)
	}

	s.loadDataSources(ctx, state, dataSourceID)
	return state, nil
}

func (s *Service) loadDataSources(ctx context.Context, state *State, selected string) {
	sources, err := s.catalog.List(ctx)
	if err != nil {
		s.log.Error("Failed to load data sources: %v", err)
		state.LoadingError = err.Error()
		return
	}

	state.DataSources = sources
	for i := range sources {
		if sources[i].ID == selected {
			state.DataSource = &sources[i]
			return
		}
	}

	if selected != "" {
		s.log.Warn("Data source '%s' is no longer available", selected)
	}
}

// Save computes the result of state and persists it together with the
// widget settings. A result that cannot be computed is saved as a
// diagnostic and logged; it does not fail the save.
func (s *Service) Save(ctx context.Context, id string, state *State) (widget.Payload, error) {
	if id == "" {
		return widget.Payload{}, ErrMissingWidgetID
	}

	payload := widget.ComputeResult(state.Input(), s.opts)
	if payload.Failed() {
		s.log.Warn("Widget '%s' saved without a usable result: %s", id, payload.Diagnostic)
	}

	settings, err := json.Marshal(state.Settings)
	if err != nil {
		return widget.Payload{}, fmt.Errorf("failed to marshal settings: %w", err)
	}
	result, err := json.Marshal(payload)
	if err != nil {
		return widget.Payload{}, fmt.Errorf("failed to marshal result: %w", err)
	}

	row := &models.Widget{
		ID:           id,
		DataSourceID: state.DataSourceID(),
		Settings:     string(settings),
		Result:       string(result),
		Failed:       payload.Failed(),
	}
	if err := s.store.SaveWidget(ctx, row); err != nil {
		return widget.Payload{}, fmt.Errorf("failed to save widget '%s': %w", id, err)
	}

	s.log.Info("Saved widget '%s' with %d filter(s)", id, len(state.Filters))
	return payload, nil
}

// Instance returns the persisted settings and result of a widget.
func (s *Service) Instance(ctx context.Context, id string) (*widget.Instance, error) {
	row, err := s.store.GetWidget(ctx, id)
	if err != nil {
		return nil, err
	}

	instance := &widget.Instance{}
	if row.Settings != "" {
		if err := json.Unmarshal([]byte(row.Settings), &instance.Settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings of widget '%s': %w", id, err)
		}
	}

	payload, err := widget.ParsePayload([]byte(row.Result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse result of widget '%s': %w", id, err)
	}
	instance.Result = payload

	return instance, nil
}
