package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"todoList/internal/config"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/middleware"
	"todoList/internal/repository"
	"todoList/internal/storage"
	"todoList/internal/storage/inmemory"
	"todoList/internal/storage/jsonfile"
	"todoList/internal/storage/postgres"
	"todoList/internal/storage/sqlite"
	"todoList/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	registry   *prometheus.Registry
	store      storage.Store
	repository *repository.TodoRepository
	handler    *handlers.TodoHandler
	worker     *worker.StatsWorker
	shutdowns  []func() // выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initStorage(ctx); err != nil {
		a.Close()
		return fmt.Errorf("инициализация хранилища: %w", err)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.repository = repository.NewTodoRepository(a.store)
	a.handler = handlers.NewTodoHandler(a.repository)
	a.worker = worker.NewStatsWorker(a.repository, a.registry, &a.config.Worker.StatsInterval)
	a.router = a.newRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("storage", a.config.Storage.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initStorage(ctx context.Context) error {
	switch storage.Type(a.config.Storage.Type) {
	case storage.InMemoryType:
		a.store = inmemory.NewTodoStorage()

	case storage.JSONFileType:
		store, err := jsonfile.New(a.config.Storage.Path)
		if err != nil {
			return err
		}
		a.store = store

	case storage.SQLiteType:
		dsn, err := sqlite.FileDSN(a.config.Storage.Path)
		if err != nil {
			return fmt.Errorf("подготовка пути sqlite: %w", err)
		}
		store, err := sqlite.New(ctx, dsn)
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, func() {
			if err := store.Close(); err != nil {
				logger.Error("Ошибка закрытия SQLite", err)
			}
		})
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("миграция sqlite: %w", err)
		}
		a.store = store

	case storage.PostgresType:
		db := a.config.Database
		store, err := postgres.New(ctx, db.URL, postgres.PoolConfig{
			MaxConns:        int32(db.MaxConnections),
			MinConns:        int32(db.MinConnections),
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, store.Close)
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("миграция postgres: %w", err)
		}
		a.store = store

	default:
		return fmt.Errorf("неизвестный тип хранилища %q", a.config.Storage.Type)
	}
	return nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, middleware.TraceIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.NewMetrics(a.registry).Handler)
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(middleware.Tracing("todo-api"))
	r.Use(middleware.Logging)
	if a.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	}

	handlers.RegisterRoutes(r, a.handler)
	r.Handle("/metrics", middleware.MetricsHandler(a.registry))

	return r
}

// Handler отдаёт собранный роутер. Нужен тестам и встраиванию.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run запускает воркер и HTTP сервер и блокируется до отмены ctx или
// ошибки сервера. После выхода ресурсы уже освобождены.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		a.worker.Start(workerCtx)
	}()
	defer func() {
		stopWorker()
		<-workerDone
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Ошибка сервера", err)
			return fmt.Errorf("сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
		return fmt.Errorf("остановка сервера: %w", err)
	}
	logger.Info("Сервер остановлен")
	return nil
}

// Close выполняет накопленные функции завершения. Повторный вызов ничего
// не делает.
func (a *App) Close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
