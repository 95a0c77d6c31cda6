package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/config"
	"github.com/matzehuels/cogbalance/pkg/server"
	"github.com/matzehuels/cogbalance/pkg/session"
)

// connectAttempts bounds connection retries for networked session backends.
const connectAttempts = 4

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr            string
		backend         string
		cleanupInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Start the HTTP API. Each session owns one row table; every read recomputes
the result from it.

Sessions are kept in memory by default. Set session.backend in the config
(or COGBALANCE_SESSION_BACKEND) to file, redis or mongo to keep them
across restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("backend") {
				c.Config.Session.Backend = backend
			}
			if err := c.Config.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cleanupInterval)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "session backend: memory, file, redis, mongo (default from config)")
	cmd.Flags().DurationVar(&cleanupInterval, "cleanup-interval", 10*time.Minute, "how often expired sessions are swept")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cleanupInterval time.Duration) error {
	logger := loggerFromContext(ctx)
	cfg := c.Config

	store, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	mgr := session.NewManager(store,
		session.WithTTL(cfg.Session.TTL.Duration),
		session.WithMinWeight(cfg.Calc.MinWeight),
		session.WithLogger(logger))
	defer mgr.Close()

	go mgr.RunCleanup(ctx, cleanupInterval)

	srv := server.New(mgr, server.Options{
		Scale:        cfg.Calc.Scale,
		CameraFactor: cfg.Calc.CameraFactor,
		Precision:    cfg.Display.Precision,
		Unit:         cfg.Display.Unit,
		Geometry:     cfg.Overlay,
		Logger:       logger,
	})

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("sessions: %s, ttl %s", cfg.Session.Backend, cfg.Session.TTL.Duration)

	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
}

// openSessionStore connects the configured session backend.
func openSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil
	case config.BackendFile:
		dir, err := cfg.SessionDir()
		if err != nil {
			return nil, fmt.Errorf("session directory: %w", err)
		}
		return session.NewFileStore(dir)
	case config.BackendRedis:
		return session.Connect(ctx, connectAttempts, time.Second, func(ctx context.Context) (session.Store, error) {
			return session.NewRedisStore(ctx, session.RedisConfig{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
		})
	case config.BackendMongo:
		return session.Connect(ctx, connectAttempts, time.Second, func(ctx context.Context) (session.Store, error) {
			return session.NewMongoStore(ctx, session.MongoConfig{
				URI:        cfg.Mongo.URI,
				Database:   cfg.Mongo.Database,
				Collection: cfg.Mongo.Collection,
			})
		})
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
