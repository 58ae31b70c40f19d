package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tOgg1/parrot/internal/config"
	"github.com/tOgg1/parrot/internal/contact"
	"github.com/tOgg1/parrot/internal/events"
	"github.com/tOgg1/parrot/internal/rotation"
)

// HealthService is the gRPC health service name reported by parrotd.
const HealthService = "parrot.Theme"

// Daemon runs the HTTP API, the optional autocert HTTPS listener, the gRPC
// health service and the midnight rotator until its context is cancelled.
type Daemon struct {
	cfg     *config.Config
	logger  zerolog.Logger
	rotator *rotation.Rotator
	api     *Handler
	handler http.Handler
	events  events.Publisher

	grpcServer *grpc.Server
	health     *health.Server

	mu       sync.Mutex
	httpAddr net.Addr
	grpcAddr net.Addr
	ready    chan struct{}
}

// DaemonOption configures a Daemon.
type DaemonOption func(*Daemon)

// WithEvents subscribes the daemon to pub while it runs. Rotation and contact
// activity then shows up in /healthz.
func WithEvents(pub events.Publisher) DaemonOption {
	return func(d *Daemon) {
		d.events = pub
	}
}

// NewDaemon constructs a daemon. contactSvc may be nil.
func NewDaemon(cfg *config.Config, rotator *rotation.Rotator, contactSvc *contact.Service, logger zerolog.Logger, opts ...DaemonOption) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if rotator == nil {
		return nil, errors.New("rotator is required")
	}

	healthServer := health.NewServer()
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	api := NewHandler(rotator, contactSvc, logger)
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		rotator:    rotator,
		api:        api,
		handler:    api.Routes(),
		grpcServer: grpcServer,
		health:     healthServer,
		ready:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Ready is closed once every listener is bound.
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// HTTPAddr returns the bound HTTP address after Ready.
func (d *Daemon) HTTPAddr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.httpAddr
}

// GRPCAddr returns the bound gRPC address after Ready, or nil when gRPC is off.
func (d *Daemon) GRPCAddr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grpcAddr
}

// Run blocks until ctx is cancelled or a listener fails.
func (d *Daemon) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	srv := d.cfg.Server

	handler := d.handler
	var httpsServer *http.Server
	var httpsListener net.Listener
	if srv.Domain != "" {
		manager, err := d.certManager()
		if err != nil {
			return err
		}
		// Plain HTTP must answer ACME http-01 challenges.
		handler = manager.HTTPHandler(d.handler)
		httpsListener, err = net.Listen("tcp", net.JoinHostPort(srv.Host, strconv.Itoa(srv.HTTPSPort)))
		if err != nil {
			return fmt.Errorf("failed to listen for https: %w", err)
		}
		httpsServer = &http.Server{
			Handler:     d.handler,
			TLSConfig:   manager.TLSConfig(),
			ReadTimeout: srv.ReadTimeout,
		}
	}

	httpListener, err := net.Listen("tcp", net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port)))
	if err != nil {
		closeListener(httpsListener)
		return fmt.Errorf("failed to listen on %s: %w", net.JoinHostPort(srv.Host, strconv.Itoa(srv.Port)), err)
	}
	httpServer := &http.Server{
		Handler:     handler,
		ReadTimeout: srv.ReadTimeout,
	}

	var grpcListener net.Listener
	if srv.GRPCPort > 0 {
		grpcListener, err = net.Listen("tcp", net.JoinHostPort(srv.Host, strconv.Itoa(srv.GRPCPort)))
		if err != nil {
			closeListener(httpListener)
			closeListener(httpsListener)
			return fmt.Errorf("failed to listen for grpc: %w", err)
		}
	}

	d.mu.Lock()
	d.httpAddr = httpListener.Addr()
	if grpcListener != nil {
		d.grpcAddr = grpcListener.Addr()
	}
	d.mu.Unlock()

	if d.events != nil {
		stop, err := d.api.Observe(d.events)
		if err != nil {
			closeListener(httpListener)
			closeListener(httpsListener)
			closeListener(grpcListener)
			return fmt.Errorf("failed to subscribe to events: %w", err)
		}
		defer stop()
		d.logger.Debug().Int("subscribers", d.events.SubscriberCount()).Msg("event subscriptions active")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.rotator.Run(gctx)
	})

	g.Go(func() error {
		d.logger.Info().Str("bind", httpListener.Addr().String()).Msg("parrotd http server starting")
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if httpsServer != nil {
		g.Go(func() error {
			d.logger.Info().Str("bind", httpsListener.Addr().String()).Str("domain", srv.Domain).Msg("parrotd https server starting")
			if err := httpsServer.ServeTLS(httpsListener, "", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("https server error: %w", err)
			}
			return nil
		})
	}

	if grpcListener != nil {
		g.Go(func() error {
			d.logger.Info().Str("bind", grpcListener.Addr().String()).Msg("parrotd grpc health server starting")
			if err := d.grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("gRPC server error: %w", err)
			}
			return nil
		})
	}

	d.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	d.health.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	close(d.ready)

	g.Go(func() error {
		<-gctx.Done()
		d.logger.Info().Msg("parrotd shutting down...")
		d.health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if httpsServer != nil {
			if err := httpsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("https shutdown: %w", err))
			}
		}
		if grpcListener != nil {
			d.grpcServer.GracefulStop()
		}
		return errors.Join(errs...)
	})

	err = g.Wait()
	d.logger.Info().Msg("parrotd shutdown complete")
	return err
}

func (d *Daemon) certManager() (*autocert.Manager, error) {
	dir := d.cfg.CertDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cert directory: %w", err)
	}
	return &autocert.Manager{
		Cache:      autocert.DirCache(dir),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(d.cfg.Server.Domain),
	}, nil
}

func closeListener(l net.Listener) {
	if l != nil {
		_ = l.Close()
	}
}
