// Package bootstrap boots the server: configuration, logging,
// storage, the session manager and both transports, then owns the
// graceful shutdown path.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Divyendra-S/sasha/internal/domain/eventbus"
	"github.com/Divyendra-S/sasha/internal/domain/llm"
	llmopenai "github.com/Divyendra-S/sasha/internal/domain/llm/openai"
	"github.com/Divyendra-S/sasha/internal/domain/session"
	sessionstore "github.com/Divyendra-S/sasha/internal/domain/session/store"
	platformconfig "github.com/Divyendra-S/sasha/internal/platform/config"
	platformerrors "github.com/Divyendra-S/sasha/internal/platform/errors"
	platformlogging "github.com/Divyendra-S/sasha/internal/platform/logging"
	platformstorage "github.com/Divyendra-S/sasha/internal/platform/storage"
	httptransport "github.com/Divyendra-S/sasha/internal/transport/http"
	wstransport "github.com/Divyendra-S/sasha/internal/transport/ws"
)

const shutdownTimeout = 15 * time.Second

type appState struct {
	config   *platformconfig.Config
	logger   *platformlogging.Logger
	db       *gorm.DB
	archive  sessionstore.Store
	provider llm.Provider
	bus      evbus.Bus
	sessions *session.Manager
}

type initStep struct {
	ID      string
	Kind    platformerrors.Kind
	Execute func(*appState) error
}

func initSteps() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfig,
		},
		{
			ID:      "logging:init",
			Kind:    platformerrors.KindConfig,
			Execute: initLogger,
		},
		{
			ID:      "storage:init",
			Kind:    platformerrors.KindStorage,
			Execute: initArchiveStore,
		},
		{
			ID:      "llm:init",
			Kind:    platformerrors.KindExtraction,
			Execute: initProvider,
		},
		{
			ID:      "sessions:init",
			Kind:    platformerrors.KindSession,
			Execute: initSessionManager,
		},
	}
}

func loadConfig(state *appState) error {
	cfg, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = cfg
	return nil
}

func initLogger(state *appState) error {
	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return err
	}
	state.logger = logger
	platformlogging.DefaultLogger = logger
	return nil
}

func initArchiveStore(state *appState) error {
	storeCfg := sessionstore.Config{
		Driver: state.config.Store.Driver,
		TTL:    state.config.Store.TTL,
		Redis: &sessionstore.RedisConfig{
			Addr:     state.config.Store.Redis.Addr,
			Username: state.config.Store.Redis.Username,
			Password: state.config.Store.Redis.Password,
			DB:       state.config.Store.Redis.DB,
			Prefix:   state.config.Store.Redis.Prefix,
		},
	}

	deps := sessionstore.Dependencies{}
	if storeCfg.Driver == sessionstore.DriverSQLite {
		db, err := platformstorage.Open(state.config.Store.SQLite.DSN)
		if err != nil {
			return err
		}
		state.db = db
		deps.SQLiteDB = db
	}

	archive, err := sessionstore.New(storeCfg, deps)
	if err != nil {
		return err
	}
	state.archive = archive
	return nil
}

func initProvider(state *appState) error {
	provider, err := llmopenai.New(state.config.Extraction)
	if err != nil {
		return err
	}
	state.provider = provider
	return nil
}

func initSessionManager(state *appState) error {
	state.bus = eventbus.New()
	state.sessions = session.NewManager(state.config, state.provider, state.bus, state.archive, state.logger)
	return nil
}

// Run starts the whole service lifecycle: initialisation, both
// transports, and graceful teardown on SIGINT/SIGTERM.
func Run(rootCtx context.Context) error {
	state := &appState{}
	for _, step := range initSteps() {
		if err := step.Execute(state); err != nil {
			return platformerrors.Wrap(step.Kind, step.ID, "init step failed", err)
		}
	}

	cfg := state.config
	logger := state.logger
	logger.InfoTag("Boot", "configuration loaded (schema %s, store %s)",
		cfg.Session.Schema, cfg.Store.Driver)

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithCancel(rootCtx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(runCtx)

	wsServer := buildWSServer(state, groupCtx)
	group.Go(func() error {
		if err := wsServer.Start(groupCtx); err != nil {
			logger.ErrorTag("WebSocket", "transport server failed: %v", err)
			return err
		}
		return nil
	})

	if cfg.Web.Enabled {
		apiServer, err := buildAPIServer(state)
		if err != nil {
			cancel()
			_ = group.Wait()
			return err
		}
		group.Go(func() error {
			go func() {
				<-groupCtx.Done()
				shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelShutdown()
				_ = apiServer.Shutdown(shutdownCtx)
			}()
			logger.InfoTag("HTTP", "api listening on %s", apiServer.Addr)
			if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorTag("HTTP", "api server failed: %v", err)
				return err
			}
			return nil
		})
	}

	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		state.sessions.CloseAll(shutdownCtx)
		_ = state.archive.Close(shutdownCtx)
		_ = wsServer.Stop()
		_ = logger.Close()
	}()

	return waitForShutdown(signalCtx, cancel, logger, group)
}

func buildWSServer(state *appState, runCtx context.Context) *wstransport.Server {
	hub := wstransport.NewHub(state.logger)
	router := wstransport.NewRouter(hub, state.logger, wstransport.RouterOptions{})
	server := wstransport.NewServer(wstransport.ServerConfig{
		Addr: fmt.Sprintf("%s:%d", state.config.Server.IP, state.config.Server.Port),
		Path: state.config.Server.Path,
	}, router, hub, state.logger)

	server.SetHandlerBuilder(func(conn *wstransport.Connection, req *http.Request) (wstransport.SessionHandler, error) {
		// Sessions outlive the upgrade request, so they hang off the
		// run context rather than the request context.
		return wstransport.NewClient(runCtx, conn, state.sessions, state.logger)
	})
	return server
}

func buildAPIServer(state *appState) (*http.Server, error) {
	router, err := httptransport.Build(httptransport.Options{
		Config: state.config,
		Logger: state.logger,
	})
	if err != nil {
		return nil, err
	}
	httptransport.NewPublisher(state.sessions, state.logger).Register(router)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", state.config.Server.IP, state.config.Web.Port),
		Handler: router.Engine,
	}, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("Boot", "shutdown signal received, draining services")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Boot", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("Boot", "all services stopped")
	case <-time.After(shutdownTimeout):
		logger.ErrorTag("Boot", "shutdown timed out, forcing exit")
		return errors.New("shutdown timed out")
	}
	return nil
}
