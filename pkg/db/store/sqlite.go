package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/qfilter/pkg/db/migrations"
	"github.com/mwantia/qfilter/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ MetadataStore = (*SQLiteStore)(nil)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db           *gorm.DB
	path         string
	maxOpenConns int
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file the store was opened on
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path         string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed metadata store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite only supports 1 writer
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}

	return &SQLiteStore{
		db:           db,
		path:         cfg.Path,
		maxOpenConns: cfg.MaxOpenConns,
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	sqlDB.SetMaxIdleConns(s.maxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate runs all pending database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Data source operations

func (s *SQLiteStore) CreateDataSource(ctx context.Context, source *models.DataSource) error {
	return s.db.WithContext(ctx).Create(source).Error
}

func (s *SQLiteStore) GetDataSource(ctx context.Context, id string) (*models.DataSource, error) {
	var source models.DataSource
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&source).Error
	if err != nil {
		return nil, notFound(err, "data source", id)
	}
	return &source, nil
}

func (s *SQLiteStore) ListDataSources(ctx context.Context) ([]models.DataSource, error) {
	var sources []models.DataSource
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&sources).Error
	return sources, err
}

func (s *SQLiteStore) UpdateDataSource(ctx context.Context, source *models.DataSource) error {
	return s.db.WithContext(ctx).Save(source).Error
}

// DeleteDataSource removes the row for good so the id can be added again.
func (s *SQLiteStore) DeleteDataSource(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Unscoped().Delete(&models.DataSource{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("data source %q: %w", id, ErrNotFound)
	}
	return nil
}

// Widget operations

// SaveWidget inserts the widget or replaces the stored settings and result
// of an existing one, keeping its creation time.
func (s *SQLiteStore) SaveWidget(ctx context.Context, widget *models.Widget) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data_source_id", "settings", "result", "failed", "updated_at", "deleted_at"}),
	}).Create(widget).Error
}

func (s *SQLiteStore) GetWidget(ctx context.Context, id string) (*models.Widget, error) {
	var widget models.Widget
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&widget).Error
	if err != nil {
		return nil, notFound(err, "widget", id)
	}
	return &widget, nil
}

func (s *SQLiteStore) ListWidgets(ctx context.Context) ([]models.Widget, error) {
	var widgets []models.Widget
	err := s.db.WithContext(ctx).Order("id ASC").Find(&widgets).Error
	return widgets, err
}

func (s *SQLiteStore) DeleteWidget(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Widget{}, "id = ?", id).Error
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return err
}
