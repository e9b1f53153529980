package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/gpukit/framegraph/pkg/cache"
	"github.com/gpukit/framegraph/pkg/export"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr  string // listen address
	redis string // optional Redis address for the artifact cache
}

// serveCommand creates the serve command. It builds the plan for a
// manifest once and serves it over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [manifest]",
		Short: "Serve a frame plan and its diagram over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for the artifact cache (default: local file cache)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	plan, _, _, err := c.buildPlan(ctx, path, false)
	if err != nil {
		return err
	}

	store, err := c.newServeCache(ctx, opts.redis)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(plan, store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving plan on %s", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeCache picks the artifact cache backend: Redis when an address
// is given, the local file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context, redisAddr string) (cache.Cache, error) {
	if redisAddr == "" {
		return newCache(false)
	}
	return cache.NewRedisCache(ctx, redisAddr)
}

// newRouter builds the HTTP surface over a built plan.
func newRouter(plan *export.Plan, store cache.Cache) http.Handler {
	keyer := cache.NewScopedKeyer(nil, "serve:")
	dot := export.ToDOT(plan, export.DOTOptions{})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/plan", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = export.WritePlan(plan, w)
	})

	r.Get("/graph.dot", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	})

	r.Get("/graph.svg", func(w http.ResponseWriter, req *http.Request) {
		key := keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: "svg"})
		if data, hit, _ := store.Get(req.Context(), key); hit {
			w.Header().Set("Content-Type", "image/svg+xml")
			_, _ = w.Write(data)
			return
		}

		data, err := export.RenderSVG(dot)
		if err != nil {
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		_ = store.Set(req.Context(), key, data, cache.TTLArtifact)

		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
	})

	return r
}
