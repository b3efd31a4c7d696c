package client

import (
	"context"

	"github.com/mwantia/qfilter/internal/agent"
	"github.com/mwantia/qfilter/internal/config"
)

// runAgent loads the configuration and runs fn against the metadata store.
func runAgent(ctx context.Context, fn func(context.Context, *agent.Services) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	return agent.NewAgent(cfg).Run(ctx, fn)
}
