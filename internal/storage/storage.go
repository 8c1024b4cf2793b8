// Package storage описывает хранилище записей задач. Хранилище само
// назначает id, дату и done=false при создании и сериализует свои операции.
package storage

import (
	"context"
	"errors"
	"time"
	"todoList/internal/models/todo"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("запись не найдена")

type Store interface {
	Create(ctx context.Context, content string) (*todo.Todo, error)
	// ReadAll возвращает записи в порядке создания, от старых к новым.
	ReadAll(ctx context.Context) ([]*todo.Todo, error)
	Update(ctx context.Context, id string, options ...todo.Option) (*todo.Todo, error)
	DeleteByID(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error
}

type Type string

const (
	InMemoryType Type = "inmemory"
	JSONFileType Type = "jsonfile"
	SQLiteType   Type = "sqlite"
	PostgresType Type = "postgres"
)

// NewTodo собирает новую запись; используется всеми реализациями.
func NewTodo(content string) *todo.Todo {
	return &todo.Todo{
		ID:      uuid.NewString(),
		Date:    time.Now().UTC(),
		Content: content,
		Done:    false,
	}
}
