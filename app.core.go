package bookstore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve() func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	server   *http.Server
	cleanups []func()
}

// NewApp provides an instance of App serving the endpoints of the given kind.
func NewApp(kind ServiceKind, build BuildInfo) (AppProvider, error) {
	config, err := LoadAndInitConfigs(kind, build)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(config.LogFolder, 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	clock := NewClock(config.IsProduction)
	logWriter := NewRSyncWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, NewTickClock(clock))
	cleanups := []func(){
		func() {
			if ferr := flusher(); ferr != nil {
				fmt.Println("error during flushing of logs: ", ferr)
			}
		},
		func() {
			if cerr := logWriter.Close(); cerr != nil {
				fmt.Println("error during closing of log file: ", cerr)
			}
		},
	}

	// Setup the storage then the api services and routing.
	storages, err := SetupStorages(context.Background(), logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup storage: %s", err)
	}
	cleanups = append([]func(){func() {
		if serr := storages.Close(); serr != nil {
			logger.Error("failed to close storage", zap.Error(serr))
		}
	}}, cleanups...)

	var bookService BookServiceProvider
	if storages.Books != nil {
		bookService = NewBookService(logger, storages.Books)
	}
	var customerService CustomerServiceProvider
	if storages.Customers != nil {
		customerService = NewCustomerService(logger, storages.Customers)
	}

	stats := &Statistics{
		version:   config.GitTag,
		container: IsAppRunningInDocker(),
		started:   clock.Now(),
		runtime:   runtime.Version(),
		platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	// Use git commit in case the tag is not set.
	if stats.version == "" {
		stats.version = config.GitCommit
	}

	apiService := NewAPIHandler(logger, config, stats, clock, NewIDsHandler(), bookService, customerService)

	// Build the map of middlewares stacks.
	middlewaresPublic, middlewaresOps := apiService.MiddlewaresStacks()

	// Configure the endpoints with their handlers and middlewares.
	router := apiService.SetupRoutes(mux.NewRouter(),
		&MiddlewareMap{
			public: middlewaresPublic,
			ops:    middlewaresOps,
		},
	)
	// Wrap the router with the default http timeout handler.
	routerWithTimeout := http.TimeoutHandler(
		router,
		config.Server.RequestTimeout,
		"Timeout. Processing taking too long. Please reach out to support.")

	// Build the api server definition.
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        routerWithTimeout,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	return &App{
		logger:   logger,
		config:   config,
		server:   srv,
		cleanups: cleanups,
	}, nil
}

// SetupStorages connects to the configured storage and provides the
// repositories of the entities served by the configured service kind.
// An unreachable database server is logged and does not stop the start.
func SetupStorages(ctx context.Context, logger *zap.Logger, config *Config) (*Storages, error) {
	s := &Storages{}
	pctx, cancel := context.WithTimeout(ctx, PoolTimeout)
	defer cancel()

	switch config.Storage.Driver {
	case PostgresDriver:
		db, err := GetPostgresClient(config)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err = PingPostgres(pctx, db); err != nil {
			logger.Error("database connection error", zap.String("storage.driver", PostgresDriver), zap.Error(err))
		} else {
			logger.Info("database connected successfully", zap.String("storage.driver", PostgresDriver))
			if config.Storage.Postgres.MigrateOnStart {
				if err = MigratePostgres(db); err != nil {
					_ = s.Close()
					return nil, err
				}
			}
		}
		s.Books = NewPostgresBookStorage(logger, db)
		s.Customers = NewPostgresCustomerStorage(logger, db)

	case RedisDriver:
		client := GetRedisClient(config)
		s.closers = append(s.closers, client.Close)
		if err := PingRedis(pctx, client); err != nil {
			logger.Error("database connection error", zap.String("storage.driver", RedisDriver), zap.Error(err))
		} else {
			logger.Info("database connected successfully", zap.String("storage.driver", RedisDriver))
		}
		s.Books = NewRedisBookStorage(logger, client)
		s.Customers = NewRedisCustomerStorage(logger, client)

	case BoltDriver:
		db, err := GetBoltDBClient(config)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.Books = NewBoltBookStorage(logger, db)
		s.Customers = NewBoltCustomerStorage(logger, db)

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if !config.Service.ServesBooks() {
		s.Books = nil
	}
	if !config.Service.ServesCustomers() {
		s.Customers = nil
	}
	return s, nil
}

// Run starts the api web server and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("api server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve starts the api web server. It returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("api server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
		)
		err := app.server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("api server stopping. reason: requested to stop")
		} else {
			app.logger.Info("api server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch err {
		case nil, http.ErrServerClosed:
			app.logger.Info("api server graceful shutdown succeeded")
		case context.DeadlineExceeded:
			app.logger.Info("api server graceful shutdown timed out")
		default:
			app.logger.Info("api server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Info("api server going to force shutdown", zap.Error(app.server.Close()))
		}
		return nil
	}
}
