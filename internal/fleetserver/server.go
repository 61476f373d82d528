package fleetserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luxfleet-io/luxfleet/internal/bridge"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/registry"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/seed"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/simulator"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/options"
)

// Server is the assembled fleet cloud process.
type Server struct {
	httpOptions *options.HttpOptions
	tokens      *auth.Service
	registry    *registry.Registry
	bridge      *bridge.Bridge
}

// New builds a server around an already-running registry. Run spawns its own
// registry from the seed fleet; New exists for embedding the API surface into
// another process, and for tests.
func New(opts *options.HttpOptions, tokens *auth.Service, reg *registry.Registry) *Server {
	return &Server{
		httpOptions: opts,
		tokens:      tokens,
		registry:    reg,
	}
}

// Run spawns the simulators and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.registry == nil {
		s.registry = registry.New(ctx, seed.Fleet(), simulator.DefaultTimings())
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.serveHTTP(ctx)
	})

	if s.bridge != nil {
		g.Go(func() error {
			return s.bridge.Run(ctx, s.registry)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}

func (s *Server) serveHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.httpOptions.Addr,
		Handler: s.Handler(),
	}

	ln, err := net.Listen(s.httpOptions.Network, s.httpOptions.Addr)
	if err != nil {
		return err
	}

	log.Info("Starting HTTP Server", "addr", s.httpOptions.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
