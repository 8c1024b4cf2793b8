package controller

import (
	"context"
	"strings"
	"todoList/internal/client"
	"todoList/internal/logger"
	"todoList/internal/models/todo"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// PageSize - размер страницы, который запрашивает клиент.
const PageSize = 2

const (
	EmptyContentMessage = "Нужно указать текст задачи!"
	CreateFailedMessage = "Не удалось создать задачу"
)

type TodoAPI interface {
	Get(ctx context.Context, page, limit int) (*client.Page, error)
	CreateByContent(ctx context.Context, content string) (*todo.Todo, error)
	ToggleDone(ctx context.Context, id string) (*todo.Todo, error)
	DeleteByID(ctx context.Context, id string) error
}

type CreateParams struct {
	Content   string
	OnError   func(message string)
	OnSuccess func(created *todo.Todo)
}

type MutationParams struct {
	TodoID             string
	UpdateTodoOnScreen func()
	OnError            func()
}

type Controller struct {
	api TodoAPI
	wg  conc.WaitGroup
}

func New(api TodoAPI) *Controller {
	return &Controller{api: api}
}

func (c *Controller) Get(ctx context.Context, page int) (*client.Page, error) {
	return c.api.Get(ctx, page, PageSize)
}

type Contenter interface {
	GetContent() string
}

// FilterTodosByContent оставляет элементы, чей текст содержит search без
// учёта регистра. Пустой search оставляет всё.
func FilterTodosByContent[T Contenter](search string, todos []T) []T {
	needle := strings.ToLower(search)
	filtered := make([]T, 0, len(todos))
	for _, t := range todos {
		if strings.Contains(strings.ToLower(t.GetContent()), needle) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Create проверяет текст и отправляет запрос в фоне. Пустой текст сразу
// вызывает OnError без обращения к API.
func (c *Controller) Create(ctx context.Context, params CreateParams) {
	if params.Content == "" {
		notifyWith(params.OnError, EmptyContentMessage)
		return
	}

	c.wg.Go(func() {
		created, err := c.api.CreateByContent(ctx, params.Content)
		if err != nil {
			logger.Warn("Controller: Не удалось создать задачу", zap.Error(err))
			notifyWith(params.OnError, CreateFailedMessage)
			return
		}
		notifyWith(params.OnSuccess, created)
	})
}

// ToggleDone сначала обновляет экран, потом отправляет запрос в фоне.
// При ошибке вызывается OnError, экран назад не откатывается.
func (c *Controller) ToggleDone(ctx context.Context, params MutationParams) {
	notify(params.UpdateTodoOnScreen)

	c.wg.Go(func() {
		if _, err := c.api.ToggleDone(ctx, params.TodoID); err != nil {
			logger.Warn("Controller: Не удалось переключить задачу",
				zap.String("todo_id", params.TodoID),
				zap.Error(err))
			notify(params.OnError)
		}
	})
}

// DeleteByID ждёт ответа сервера и только после успеха обновляет экран.
func (c *Controller) DeleteByID(ctx context.Context, params MutationParams) {
	if err := c.api.DeleteByID(ctx, params.TodoID); err != nil {
		logger.Warn("Controller: Не удалось удалить задачу",
			zap.String("todo_id", params.TodoID),
			zap.Error(err))
		notify(params.OnError)
		return
	}
	notify(params.UpdateTodoOnScreen)
}

// Wait блокируется, пока не завершатся все фоновые запросы.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func notifyWith[T any](fn func(T), arg T) {
	if fn != nil {
		fn(arg)
	}
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
