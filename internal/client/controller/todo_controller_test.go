package controller_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"todoList/internal/client"
	"todoList/internal/client/controller"
	"todoList/internal/models/todo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTodoAPI - мок клиента API
type MockTodoAPI struct {
	mock.Mock
}

func (m *MockTodoAPI) Get(ctx context.Context, page, limit int) (*client.Page, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Page), args.Error(1)
}

func (m *MockTodoAPI) CreateByContent(ctx context.Context, content string) (*todo.Todo, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoAPI) ToggleDone(ctx context.Context, id string) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoAPI) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ controller.TodoAPI = (*client.Client)(nil)

func TestController_Get_UsesPageSize(t *testing.T) {
	api := new(MockTodoAPI)
	expected := &client.Page{Todos: []*todo.Todo{}, Total: 5, Pages: 3}
	api.On("Get", mock.Anything, 2, controller.PageSize).Return(expected, nil)

	page, err := controller.New(api).Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, expected, page)
	assert.Equal(t, 2, controller.PageSize)
	api.AssertExpectations(t)
}

// TestFilterTodosByContent тестирует поиск без учёта регистра
func TestFilterTodosByContent(t *testing.T) {
	todos := []todo.Todo{
		{ID: "1", Content: "Buy Milk"},
		{ID: "2", Content: "walk the dog"},
		{ID: "3", Content: "MILKSHAKE recipe"},
	}

	tests := []struct {
		name        string
		search      string
		expectedIDs []string
	}{
		{name: "lower case needle", search: "milk", expectedIDs: []string{"1", "3"}},
		{name: "upper case needle", search: "MILK", expectedIDs: []string{"1", "3"}},
		{name: "middle of text", search: "the", expectedIDs: []string{"2"}},
		{name: "empty search keeps all", search: "", expectedIDs: []string{"1", "2", "3"}},
		{name: "no match", search: "zebra", expectedIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := controller.FilterTodosByContent(tt.search, todos)

			ids := make([]string, 0, len(filtered))
			for _, f := range filtered {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

type note struct{ text string }

func (n note) GetContent() string { return n.text }

func TestFilterTodosByContent_AnyContenter(t *testing.T) {
	notes := []note{{"Alpha"}, {"beta"}, {"ALPHABET"}}
	assert.Equal(t, []note{{"Alpha"}, {"ALPHABET"}}, controller.FilterTodosByContent("alpha", notes))
}

// TestController_Create тестирует создание
func TestController_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("empty content never hits the network", func(t *testing.T) {
		api := new(MockTodoAPI)
		c := controller.New(api)

		var message string
		c.Create(ctx, controller.CreateParams{
			Content:   "",
			OnError:   func(m string) { message = m },
			OnSuccess: func(*todo.Todo) { t.Error("OnSuccess must not be called") },
		})
		c.Wait()

		assert.Equal(t, controller.EmptyContentMessage, message)
		api.AssertNotCalled(t, "CreateByContent", mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		api := new(MockTodoAPI)
		created := &todo.Todo{ID: "1", Content: "X"}
		api.On("CreateByContent", mock.Anything, "X").Return(created, nil)
		c := controller.New(api)

		var got *todo.Todo
		c.Create(ctx, controller.CreateParams{
			Content:   "X",
			OnError:   func(string) { t.Error("OnError must not be called") },
			OnSuccess: func(td *todo.Todo) { got = td },
		})
		c.Wait()

		assert.Equal(t, created, got)
		api.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		api := new(MockTodoAPI)
		api.On("CreateByContent", mock.Anything, "X").Return(nil, errors.New("offline"))
		c := controller.New(api)

		var message string
		c.Create(ctx, controller.CreateParams{
			Content: "X",
			OnError: func(m string) { message = m },
		})
		c.Wait()

		assert.Equal(t, controller.CreateFailedMessage, message)
	})
}

// TestController_ToggleDone_Optimistic проверяет, что экран меняется до
// ответа сервера и не откатывается после ошибки
func TestController_ToggleDone_Optimistic(t *testing.T) {
	release := make(chan struct{})
	api := new(MockTodoAPI)
	api.On("ToggleDone", mock.Anything, "42").
		Run(func(mock.Arguments) { <-release }).
		Return(nil, &client.APIError{StatusCode: 500, Message: "Internal server error"})

	c := controller.New(api)

	var done, failed atomic.Bool
	c.ToggleDone(context.Background(), controller.MutationParams{
		TodoID:             "42",
		UpdateTodoOnScreen: func() { done.Store(!done.Load()) },
		OnError:            func() { failed.Store(true) },
	})

	assert.True(t, done.Load(), "screen must flip before the request resolves")
	assert.False(t, failed.Load())

	close(release)
	c.Wait()

	assert.True(t, failed.Load())
	assert.True(t, done.Load(), "screen stays flipped after rejection")
	api.AssertExpectations(t)
}

func TestController_ToggleDone_Success(t *testing.T) {
	api := new(MockTodoAPI)
	api.On("ToggleDone", mock.Anything, "42").Return(&todo.Todo{ID: "42", Done: true}, nil)
	c := controller.New(api)

	updates := 0
	c.ToggleDone(context.Background(), controller.MutationParams{
		TodoID:             "42",
		UpdateTodoOnScreen: func() { updates++ },
		OnError:            func() { t.Error("OnError must not be called") },
	})
	c.Wait()

	assert.Equal(t, 1, updates)
	api.AssertExpectations(t)
}

// TestController_DeleteByID_Pessimistic проверяет, что экран меняется только
// после ответа сервера
func TestController_DeleteByID_Pessimistic(t *testing.T) {
	t.Run("success updates after response", func(t *testing.T) {
		var responded atomic.Bool
		api := new(MockTodoAPI)
		api.On("DeleteByID", mock.Anything, "42").
			Run(func(mock.Arguments) {
				time.Sleep(10 * time.Millisecond)
				responded.Store(true)
			}).
			Return(nil)

		var updatedAfterResponse bool
		controller.New(api).DeleteByID(context.Background(), controller.MutationParams{
			TodoID:             "42",
			UpdateTodoOnScreen: func() { updatedAfterResponse = responded.Load() },
			OnError:            func() { t.Error("OnError must not be called") },
		})

		assert.True(t, updatedAfterResponse)
		api.AssertExpectations(t)
	})

	t.Run("failure leaves screen untouched", func(t *testing.T) {
		api := new(MockTodoAPI)
		api.On("DeleteByID", mock.Anything, "42").Return(&client.APIError{StatusCode: 404})

		updated, failed := false, false
		controller.New(api).DeleteByID(context.Background(), controller.MutationParams{
			TodoID:             "42",
			UpdateTodoOnScreen: func() { updated = true },
			OnError:            func() { failed = true },
		})

		assert.False(t, updated)
		assert.True(t, failed)
	})
}
