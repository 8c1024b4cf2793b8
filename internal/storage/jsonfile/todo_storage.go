// Package jsonfile хранит задачи в одном JSON-файле вида {"todos": [...]}.
// Файл перечитывается на каждую операцию, запись идёт через временный файл.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"todoList/internal/logger"
	"todoList/internal/models/todo"
	"todoList/internal/storage"

	"go.uber.org/zap"
)

type document struct {
	Todos []*todo.Todo `json:"todos"`
}

type TodoStorage struct {
	path string
	mtx  sync.Mutex
}

func New(path string) (*TodoStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога: %w", err)
	}
	s := &TodoStorage{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.save(&document{Todos: []*todo.Todo{}}); err != nil {
			return nil, err
		}
		logger.Info("Repository: Создан файл хранилища", zap.String("path", path))
	}
	return s, nil
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, err := s.load(); err != nil {
		logger.Error("Repository: Файл хранилища недоступен", err, zap.String("path", s.path))
		return err
	}
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, content string) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	created := storage.NewTodo(content)
	doc.Todos = append(doc.Todos, created)
	if err := s.save(doc); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TodoStorage) ReadAll(ctx context.Context) ([]*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Todos, nil
}

func (s *TodoStorage) Update(ctx context.Context, id string, options ...todo.Option) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, t := range doc.Todos {
		if t.ID != id {
			continue
		}
		todo.Apply(t, options...)
		if err := s.save(doc); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, storage.ErrNotFound
}

func (s *TodoStorage) DeleteByID(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	for ind, t := range doc.Todos {
		if t.ID == id {
			doc.Todos = append(doc.Todos[:ind], doc.Todos[ind+1:]...)
			return s.save(doc)
		}
	}
	return storage.ErrNotFound
}

func (s *TodoStorage) load() (*document, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("разбор json: %w", err)
	}
	if doc.Todos == nil {
		doc.Todos = []*todo.Todo{}
	}
	return doc, nil
}

func (s *TodoStorage) save(doc *document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация json: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("запись файла: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("замена файла: %w", err)
	}
	return nil
}
