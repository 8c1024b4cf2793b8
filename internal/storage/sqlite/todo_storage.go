package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"todoList/internal/logger"
	"todoList/internal/models/todo"
	"todoList/internal/storage"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("открытие sqlite: %w", err)
	}
	// sqlite не любит параллельных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("настройка pragma: %w", err)
	}

	logger.Info("Repository: Успешное подключение к SQLite")
	return &Storage{db: db}, nil
}

// FileDSN строит DSN вида file:/abs/path?_pragma=busy_timeout(5000).
func FileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}

func (s *Storage) Close() error {
	logger.Info("Repository: Закрытие соединения SQLite")
	return s.db.Close()
}

func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS todos (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			content TEXT NOT NULL,
			done INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		logger.Error("Repository: Не удалось применить схему SQLite", err)
		return fmt.Errorf("миграция sqlite: %w", err)
	}
	return nil
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, content string) (*todo.Todo, error) {
	created := storage.NewTodo(content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (id, date, content, done)
		VALUES (?, ?, ?, 0)
	`, created.ID, created.Date.Format(time.RFC3339Nano), created.Content)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}
	return created, nil
}

func (s *Storage) ReadAll(ctx context.Context) ([]*todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, content, done
		FROM todos
		ORDER BY seq ASC
	`)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err)
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return todos, nil
}

func (s *Storage) Update(ctx context.Context, id string, options ...todo.Option) (*todo.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("начало транзакции: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT id, date, content, done FROM todos WHERE id = ?`, id)
	existing, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	todo.Apply(existing, options...)

	if _, err := tx.ExecContext(ctx, `UPDATE todos SET content = ?, done = ? WHERE id = ?`,
		existing.Content, existing.Done, existing.ID); err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.String("todo_id", id))
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("фиксация транзакции: %w", err)
	}
	return existing, nil
}

func (s *Storage) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.String("todo_id", id))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*todo.Todo, error) {
	t := &todo.Todo{}
	var date string
	if err := row.Scan(&t.ID, &date, &t.Content, &t.Done); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("сканирование задачи: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return nil, fmt.Errorf("разбор даты: %w", err)
	}
	t.Date = parsed
	return t, nil
}
