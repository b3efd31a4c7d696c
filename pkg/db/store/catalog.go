package store

import (
	"context"
	"errors"

	"github.com/mwantia/qfilter/pkg/db/models"
)

// DataSource is a catalog entry as the editor sees it
type DataSource struct {
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// Catalog looks up the data sources a widget can be bound to
type Catalog interface {
	List(ctx context.Context) ([]DataSource, error)
	Get(ctx context.Context, id string) (*DataSource, bool, error)
}

// StoreCatalog serves the catalog from the metadata store
type StoreCatalog struct {
	store MetadataStore
}

func NewStoreCatalog(store MetadataStore) *StoreCatalog {
	return &StoreCatalog{store: store}
}

func (c *StoreCatalog) List(ctx context.Context) ([]DataSource, error) {
	rows, err := c.store.ListDataSources(ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]DataSource, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, toDataSource(row))
	}
	return sources, nil
}

func (c *StoreCatalog) Get(ctx context.Context, id string) (*DataSource, bool, error) {
	row, err := c.store.GetDataSource(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	source := toDataSource(*row)
	return &source, true, nil
}

func toDataSource(row models.DataSource) DataSource {
	columns := row.Columns
	if columns == nil {
		columns = []string{}
	}
	return DataSource{ID: row.ID, Name: row.Name, Columns: columns}
}
