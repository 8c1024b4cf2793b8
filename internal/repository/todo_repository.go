package repository

import (
	"context"
	"errors"
	"todoList/internal/logger"
	"todoList/internal/models/todo"
	"todoList/internal/storage"

	"go.uber.org/zap"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type GetParams struct {
	Page  int
	Limit int
}

type Page struct {
	Todos []*todo.Todo `json:"todos"`
	Total int          `json:"total"`
	Pages int          `json:"pages"`
}

type TodoRepository struct {
	store storage.Store
}

func NewTodoRepository(store storage.Store) *TodoRepository {
	return &TodoRepository{
		store: store,
	}
}

func (r *TodoRepository) HealthCheck(ctx context.Context) error {
	if err := r.store.HealthCheck(ctx); err != nil {
		return NewInternal("health_check", err)
	}
	return nil
}

// Get отдаёт страницу задач от новых к старым. Страница за пределами
// диапазона даёт пустой список, а не ошибку.
func (r *TodoRepository) Get(ctx context.Context, params GetParams) (*Page, error) {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	all, err := r.store.ReadAll(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать задачи", err)
		return nil, NewInternal("read_all", err)
	}

	total := len(all)
	reversed := make([]*todo.Todo, total)
	for i, t := range all {
		reversed[total-1-i] = t
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	// page-1 < pages гарантирует (page-1)*limit < total, без переполнения
	start, end := total, total
	if page-1 < pages {
		start = (page - 1) * limit
		end = start + min(limit, total-start)
	}

	return &Page{
		Todos: reversed[start:end],
		Total: total,
		Pages: pages,
	}, nil
}

func (r *TodoRepository) CreateByContent(ctx context.Context, content string) (*todo.Todo, error) {
	created, err := r.store.Create(ctx, content)
	if err != nil {
		logger.Error("Repository: Не удалось создать задачу", err)
		return nil, NewInternal("create", err)
	}

	logger.Info("Repository: Задача создана", zap.String("todo_id", created.ID))
	return created, nil
}

func (r *TodoRepository) ToggleDone(ctx context.Context, id string) (*todo.Todo, error) {
	found, err := r.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := r.store.Update(ctx, found.ID, todo.WithDone(!found.Done))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NewNotFound(id)
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.String("todo_id", id))
		return nil, NewInternal("update", err)
	}

	logger.Info("Repository: Статус задачи изменён",
		zap.String("todo_id", id),
		zap.Bool("done", updated.Done))
	return updated, nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.findByID(ctx, id); err != nil {
		return err
	}

	if err := r.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return NewNotFound(id)
		}
		logger.Error("Repository: Не удалось удалить задачу", err, zap.String("todo_id", id))
		return NewInternal("delete", err)
	}

	logger.Info("Repository: Задача удалена", zap.String("todo_id", id))
	return nil
}

func (r *TodoRepository) findByID(ctx context.Context, id string) (*todo.Todo, error) {
	all, err := r.store.ReadAll(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось прочитать задачи", err)
		return nil, NewInternal("read_all", err)
	}

	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}

	logger.Info("Repository: Задача не найдена", zap.String("target_id", id))
	return nil, NewNotFound(id)
}

type Stats struct {
	Total int
	Done  int
}

// Stats считает задачи в хранилище. Используется фоновым воркером метрик.
func (r *TodoRepository) Stats(ctx context.Context) (Stats, error) {
	all, err := r.store.ReadAll(ctx)
	if err != nil {
		return Stats{}, NewInternal("read_all", err)
	}

	stats := Stats{Total: len(all)}
	for _, t := range all {
		if t.Done {
			stats.Done++
		}
	}
	return stats, nil
}
