package agent

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/mwantia/fabric/pkg/container"

	"github.com/mwantia/qfilter/internal/config"
	"github.com/mwantia/qfilter/internal/editor"
	"github.com/mwantia/qfilter/pkg/db/store"
	"github.com/mwantia/qfilter/pkg/log"
)

// Services are handed to the function run by the agent.
type Services struct {
	Store  store.MetadataStore
	Editor *editor.Service
	Log    log.LoggerService
}

type QFilterAgent struct {
	mutex sync.Mutex

	cfg *config.Config
	sc  *container.ServiceContainer
	log log.LoggerService
}

func NewAgent(cfg *config.Config) *QFilterAgent {
	return NewAgentWithLogger(cfg, log.NewLoggerService("qfilter", cfg.Log))
}

func NewAgentWithLogger(cfg *config.Config, logger log.LoggerService) *QFilterAgent {
	return &QFilterAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: logger,
	}
}

func (qa *QFilterAgent) setupServices(ctx context.Context) (*store.SQLiteStore, error) {
	sqlite, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:         qa.cfg.Metadata.SQLite.Path,
		MaxOpenConns: qa.cfg.Metadata.SQLite.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}

	qa.log.Debug("Connecting metadata store '%s'...", sqlite.Path())
	if err := sqlite.Connect(ctx); err != nil {
		sqlite.Close()
		return nil, fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if err := sqlite.Migrate(ctx); err != nil {
		sqlite.Close()
		return nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}

	errs := container.Errors{}

	qa.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](qa.sc,
		container.With[log.LoggerService](),
		container.WithInstance(qa.log)))

	qa.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.SQLiteStore](qa.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(sqlite)))

	if err := errs.Errors(); err != nil {
		sqlite.Close()
		return nil, err
	}

	return sqlite, nil
}

// Run opens the metadata store, wires the editor and calls fn with them.
// Services are cleaned up once fn returns.
func (qa *QFilterAgent) Run(ctx context.Context, fn func(context.Context, *Services) error) error {
	qa.mutex.Lock()
	defer qa.mutex.Unlock()

	sqlite, err := qa.setupServices(ctx)
	if err != nil {
		return err
	}
	defer qa.shutdown(sqlite)

	ms, err := resolve[store.MetadataStore](ctx, qa.sc)
	if err != nil {
		return err
	}
	logger, err := resolve[log.LoggerService](ctx, qa.sc)
	if err != nil {
		return err
	}

	return fn(ctx, &Services{
		Store:  ms,
		Editor: editor.NewService(ms, store.NewStoreCatalog(ms), logger),
		Log:    logger,
	})
}

func (qa *QFilterAgent) shutdown(sqlite *store.SQLiteStore) {
	timeout, err := time.ParseDuration(qa.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 10 seconds if error
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := qa.sc.Cleanup(ctx); err != nil {
		qa.log.Warn("Failed to complete service container cleanup: %v", err)
	}
	if err := sqlite.Close(); err != nil {
		qa.log.Warn("Failed to close metadata store: %v", err)
	}
}

func resolve[T any](ctx context.Context, sc *container.ServiceContainer) (T, error) {
	var zero T

	typ := reflect.TypeOf((*T)(nil)).Elem()
	ok, resolved := sc.ResolveByType(ctx, typ)
	if !ok {
		return zero, fmt.Errorf("no service registered for '%s'", typ)
	}

	service, ok := resolved.(T)
	if !ok {
		return zero, fmt.Errorf("resolved service is not a '%s'", typ)
	}
	return service, nil
}
