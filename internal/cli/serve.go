package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flowmotion/flowmotion/internal/api"
	"github.com/flowmotion/flowmotion/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Flowmotion HTTP API server",
		Long: `Run the Flowmotion HTTP API server.

The server exposes the pipeline over JSON endpoints: inline scene evaluation
under /v1/eval and /v1/layout, and stored scene CRUD under /v1/scenes. With
a mongo_uri in the config, stored scenes persist in MongoDB; otherwise they
live in memory for the lifetime of the process.

The server shuts down gracefully on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	if addr == "" {
		addr = c.Config.API.Addr
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	sceneStore, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer sceneStore.Close(context.Background())

	server, err := api.NewServer(api.Config{
		Addr:   addr,
		Runner: runner,
		Store:  sceneStore,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	return server.Start(ctx)
}

// newStore creates the scene store selected by the config.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.Config.Store.MongoURI == "" {
		c.Logger.Warn("no mongo_uri configured, stored scenes are in-memory only")
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      c.Config.Store.MongoURI,
		Database: c.Config.Store.Database,
	})
}
