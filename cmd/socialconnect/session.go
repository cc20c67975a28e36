package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	socialconnect "github.com/goliatone/go-socialconnect"
	"github.com/goliatone/go-socialconnect/adapters/gocommand"
	socialprometheus "github.com/goliatone/go-socialconnect/adapters/prometheus"
	socialcommand "github.com/goliatone/go-socialconnect/command"
	"github.com/goliatone/go-socialconnect/core"
	sqlstore "github.com/goliatone/go-socialconnect/store/sql"
	"github.com/goliatone/go-socialconnect/webview/loopback"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

// session is one wired client plus everything that must be released with it.
type session struct {
	client  *core.Client
	view    *loopback.Server
	bus     *gocommand.ClientBus
	closers []func() error
	timeout time.Duration
}

func openSession(cctx *cli.Context, withView bool) (*session, error) {
	ctx := cctx.Context
	s := &session{timeout: cctx.Duration("timeout")}

	store, err := s.openCredentialStore(cctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	opts := []socialconnect.Option{
		socialconnect.WithConfig(core.ClientConfig{
			ClientID:          cctx.String("client-id"),
			ClientSecret:      cctx.String("client-secret"),
			RedirectURI:       cctx.String("redirect-uri"),
			Scope:             cctx.String("scope"),
			AuthorizationMode: cctx.String("mode"),
		}),
		socialconnect.WithCredentialStore(store),
		socialconnect.WithMetricsRecorder(socialprometheus.NewRecorder()),
	}
	if withView {
		view, err := loopback.New(cctx.String("redirect-uri"), loopback.WithOpener(func(url string) error {
			_, err := fmt.Fprintf(os.Stderr, "Open this URL in a browser to sign in:\n\n  %s\n\n", url)
			return err
		}))
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := view.Start(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.view = view
		s.closers = append(s.closers, view.Close)
		opts = append(opts, socialconnect.WithWebView(view))
	}

	if addr := cctx.String("metrics-addr"); addr != "" {
		server := &http.Server{Addr: addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
			}
		}()
		s.closers = append(s.closers, server.Close)
	}

	client, err := socialconnect.DefaultProviderRegistry().NewClient(cctx.String("provider"), opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.client = client
	s.closers = append(s.closers, client.Close)

	bus, err := gocommand.RegisterClient(gocommand.NewRegistryAdapter(nil), client)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.bus = bus
	return s, nil
}

func (s *session) openCredentialStore(cctx *cli.Context) (core.CredentialStore, error) {
	driver := cctx.String("db-driver")
	client, err := sqlstore.OpenPersistence(sqlstore.PersistenceConfig{
		Driver: driver,
		DSN:    cctx.String("db-dsn"),
	})
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, client.Close)
	if err := sqlstore.ApplyMigrations(cctx.Context, client, driver); err != nil {
		return nil, err
	}
	store, err := sqlstore.NewCredentialStoreFromPersistence(client)
	if err != nil {
		return nil, err
	}

	ttl := cctx.Duration("cache-ttl")
	if ttl <= 0 {
		return store, nil
	}
	cfg := repositorycache.DefaultConfig()
	cfg.TTL = ttl
	cacheService, err := repositorycache.NewCacheService(cfg)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewCachedCredentialStore(store, cacheService)
}

// Close releases resources in reverse order of acquisition.
func (s *session) Close() {
	if s.bus != nil {
		s.bus.Close()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}

// await subscribes before start runs and blocks until match accepts an event,
// the timeout passes or ctx ends.
func (s *session) await(ctx context.Context, start func() error, match func(core.Event) (bool, error)) error {
	type outcome struct {
		err error
	}
	done := make(chan outcome, 1)
	unsubscribe := s.client.Subscribe(func(event core.Event) {
		ok, err := match(event)
		if !ok {
			return
		}
		select {
		case done <- outcome{err: err}:
		default:
		}
	})
	defer unsubscribe()

	if err := start(); err != nil {
		return err
	}
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case result := <-done:
		return result.err
	case <-timer.C:
		s.client.Cancel()
		return fmt.Errorf("timed out after %s", s.timeout)
	case <-ctx.Done():
		s.client.Cancel()
		return ctx.Err()
	}
}

func (s *session) restore(ctx context.Context) (bool, error) {
	restored, _, err := gocommand.DispatchWithResult[socialcommand.RestoreCredentialsMessage, socialcommand.RestoreResult](
		ctx,
		socialcommand.RestoreCredentialsMessage{},
	)
	if err != nil {
		return false, err
	}
	return restored.Restored, nil
}
