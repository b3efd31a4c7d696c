package store

import (
	"context"
	"errors"

	"github.com/mwantia/qfilter/pkg/db/models"
)

var ErrNotFound = errors.New("record not found")

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Data source operations
	CreateDataSource(ctx context.Context, source *models.DataSource) error
	GetDataSource(ctx context.Context, id string) (*models.DataSource, error)
	ListDataSources(ctx context.Context) ([]models.DataSource, error)
	UpdateDataSource(ctx context.Context, source *models.DataSource) error
	DeleteDataSource(ctx context.Context, id string) error

	// Widget operations
	SaveWidget(ctx context.Context, widget *models.Widget) error
	GetWidget(ctx context.Context, id string) (*models.Widget, error)
	ListWidgets(ctx context.Context) ([]models.Widget, error)
	DeleteWidget(ctx context.Context, id string) error
}
