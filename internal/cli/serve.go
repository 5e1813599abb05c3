package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/observability"
	"github.com/matzehuels/visionboard/pkg/render"
	"github.com/matzehuels/visionboard/pkg/server"
	"github.com/matzehuels/visionboard/pkg/session"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API over HTTP",
		Long: `Serve the board API over HTTP.

Boards are kept for the length of a session (server.session_ttl). Sessions
and fetched images live in memory unless a redis URL is configured, in which
case both are shared through redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for sessions and cache (default: server.redis_url)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the image cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool) error {
	logger := loggerFromContext(ctx)
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	if redisURL == "" {
		redisURL = c.Config.Server.RedisURL
	}

	var (
		store    session.Store = session.NewMemoryStore()
		imgCache cache.Cache   = cache.NewMemoryCache()
		backend                = "memory"
	)
	if redisURL != "" {
		rs, err := session.DialRedis(ctx, redisURL)
		if err != nil {
			return err
		}
		store = rs
		imgCache = cache.NewRedisCache(rs.Client(), cache.DefaultRedisPrefix)
		backend = "redis"
	}
	defer store.Close()
	if noCache {
		imgCache = cache.NewNullCache()
	}

	capture, err := c.Config.CaptureOptions()
	if err != nil {
		return err
	}

	observability.SetAll(observability.NewLogHooks(logger))
	defer observability.Reset()

	loader := c.newServeLoader(imgCache, logger)
	p := export.New(render.NewRasterizer(loader, render.WithLogger(logger)),
		export.WithCaptureOptions(capture),
		export.WithJPEGQuality(c.Config.Export.JPEGQuality),
		export.WithLogger(logger),
	)
	srv := server.New(p,
		server.WithStore(store),
		server.WithSessionTTL(c.Config.Server.SessionTTL),
		server.WithLogger(logger),
	)

	printSuccess("Serving board API")
	printKeyValue("address", addr)
	printKeyValue("sessions", backend)
	printKeyValue("session ttl", c.Config.Server.SessionTTL.String())
	printDetail("Press Ctrl+C to stop")

	if err := srv.Run(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
