package inmemory

import (
	"context"
	"sync"
	"todoList/internal/logger"
	"todoList/internal/models/todo"
	"todoList/internal/storage"

	"go.uber.org/zap"
)

type TodoStorage struct {
	storage map[string]*todo.Todo
	mtx     *sync.RWMutex
	ids     []string
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[string]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []string{},
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно", zap.String("storage", string(storage.InMemoryType)))
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, content string) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	created := storage.NewTodo(content)
	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)

	copied := *created
	return &copied, nil
}

func (s *TodoStorage) ReadAll(ctx context.Context) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*todo.Todo, 0, len(s.ids))
	for _, id := range s.ids {
		copied := *s.storage[id]
		res = append(res, &copied)
	}
	return res, nil
}

func (s *TodoStorage) Update(ctx context.Context, id string, options ...todo.Option) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	todo.Apply(existing, options...)

	copied := *existing
	return &copied, nil
}

func (s *TodoStorage) DeleteByID(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
