package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-inventory-dashboard/credentials"
	"github.com/jrsteele09/go-inventory-dashboard/credentials/redisstore"
	"github.com/jrsteele09/go-inventory-dashboard/credentials/sqlitestore"
	"github.com/jrsteele09/go-inventory-dashboard/internal/config"
	"github.com/jrsteele09/go-inventory-dashboard/internal/logging"
	"github.com/jrsteele09/go-inventory-dashboard/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

const pruneInterval = time.Hour

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load("")
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closeBackend, err := openBackend(ctx, c)
	if err != nil {
		return err
	}
	defer closeBackend()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := server.New(c, backend, server.WithMetrics(reg))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	go sweepSessions(ctx, handler, c.GetSessionIdle())

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	handler.SetReady(false)
	return shutdown(srv)
}

// openBackend builds the credential backend named by CREDENTIAL_STORE,
// sealing it when CREDENTIAL_KEY is set.
func openBackend(ctx context.Context, c config.Config) (credentials.Backend, func(), error) {
	var (
		backend credentials.Backend
		closeFn = func() {}
	)

	switch c.GetCredentialStore() {
	case config.StoreMemory, "":
		backend = credentials.NewMemoryBackend()
	case config.StoreSQLite:
		db, err := sqlitestore.Open(c.GetSQLitePath())
		if err != nil {
			return nil, nil, err
		}
		go pruneCredentials(ctx, db, c.GetCredentialTTL())
		backend = db
		closeFn = func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close sqlite credential store")
			}
		}
	case config.StoreRedis:
		rdb, err := redisstore.New(ctx, c.GetRedisURL(), c.GetCredentialTTL())
		if err != nil {
			return nil, nil, err
		}
		backend = rdb
		closeFn = func() {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close redis credential store")
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown CREDENTIAL_STORE %q", c.GetCredentialStore())
	}

	key, err := c.GetCredentialKey()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if key != nil {
		sealed, err := credentials.Sealed(backend, key)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		backend = sealed
	}

	log.Info().
		Str("store", c.GetCredentialStore()).
		Bool("sealed", key != nil).
		Msg("Credential store ready")
	return backend, closeFn, nil
}

func pruneCredentials(ctx context.Context, db *sqlitestore.Backend, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := db.Prune(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("Failed to prune credentials")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("Pruned expired credentials")
			}
		}
	}
}

func sweepSessions(ctx context.Context, s *server.Server, idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sessions().Sweep(idle); n > 0 {
				log.Debug().Int("sessions", n).Msg("Swept idle sessions")
			}
		}
	}
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
