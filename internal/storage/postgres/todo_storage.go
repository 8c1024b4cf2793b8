package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoList/internal/logger"
	"todoList/internal/models/todo"
	"todoList/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
	url  string
}

func New(ctx context.Context, connString string, poolCfg PoolConfig) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if poolCfg.MaxConns > 0 {
		config.MaxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		config.MinConns = poolCfg.MinConns
	}
	if poolCfg.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = poolCfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, url: connString}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, content string) (*todo.Todo, error) {
	start := time.Now()
	created := storage.NewTodo(content)

	query := `INSERT INTO todos (id, date, content, done)
				VALUES ($1, $2, $3, FALSE)
				RETURNING date`

	err := s.pool.QueryRow(ctx, query, uuid.MustParse(created.ID), created.Date, created.Content).
		Scan(&created.Date)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start)
	return created, nil
}

func (s *Storage) ReadAll(ctx context.Context) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT id::text, date, content, done
				FROM todos
				ORDER BY seq ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t := &todo.Todo{}
		if err := rows.Scan(&t.ID, &t.Date, &t.Content, &t.Done); err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start)
	return todos, nil
}

func (s *Storage) Update(ctx context.Context, id string, options ...todo.Option) (*todo.Todo, error) {
	start := time.Now()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	existing := &todo.Todo{}
	err = tx.QueryRow(ctx, `SELECT id::text, date, content, done FROM todos WHERE id = $1 FOR UPDATE`, parsed).
		Scan(&existing.ID, &existing.Date, &existing.Content, &existing.Done)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	todo.Apply(existing, options...)

	if _, err := tx.Exec(ctx, `UPDATE todos SET content = $1, done = $2 WHERE id = $3`,
		existing.Content, existing.Done, parsed); err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("фиксация транзакции: %w", err)
	}

	warnIfSlow(start)
	return existing, nil
}

func (s *Storage) DeleteByID(ctx context.Context, id string) error {
	start := time.Now()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return storage.ErrNotFound
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, parsed)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	warnIfSlow(start)
	return nil
}

func warnIfSlow(start time.Time) {
	if time.Since(start) > slowQuery {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
}
