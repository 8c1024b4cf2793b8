package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"todoList/internal/client"
	"todoList/internal/handlers"
	"todoList/internal/repository"
	"todoList/internal/storage/inmemory"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.NewTodoHandler(repository.NewTodoRepository(inmemory.NewTodoStorage())))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/", client.WithHTTPClient(srv.Client()))
}

// TestClient_Lifecycle прогоняет все методы через настоящий сервер
func TestClient_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)

	empty, err := c.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Todos)
	assert.NotNil(t, empty.Todos)
	assert.Equal(t, 0, empty.Total)

	for _, content := range []string{"one", "two", "three"} {
		created, err := c.CreateByContent(ctx, content)
		require.NoError(t, err)
		assert.Equal(t, content, created.Content)
		assert.False(t, created.Done)
	}

	page, err := c.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Todos, 2)
	assert.Equal(t, "three", page.Todos[0].Content)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Pages)

	toggled, err := c.ToggleDone(ctx, page.Todos[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	require.NoError(t, c.DeleteByID(ctx, page.Todos[0].ID))

	page, err = c.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

// TestClient_APIErrors проверяет, что ответы вне 2xx становятся APIError
func TestClient_APIErrors(t *testing.T) {
	ctx := context.Background()
	c := newServer(t)
	missing := uuid.NewString()

	tests := []struct {
		name            string
		call            func() error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "create with empty content",
			call: func() error {
				_, err := c.CreateByContent(ctx, "")
				return err
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "You missed to provide a content to create a todo",
		},
		{
			name: "toggle missing",
			call: func() error {
				_, err := c.ToggleDone(ctx, missing)
				return err
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: repository.NewNotFound(missing).Message,
		},
		{
			name:            "delete invalid id",
			call:            func() error { return c.DeleteByID(ctx, "nope") },
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "You must provide a valid ID",
		},
		{
			name:            "delete missing",
			call:            func() error { return c.DeleteByID(ctx, missing) },
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Failed to delete resource with id " + missing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()

			var apiErr *client.APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.expectedStatus, apiErr.StatusCode)
			assert.Equal(t, tt.expectedMessage, apiErr.Message)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.New(url).Get(context.Background(), 1, 2)
	require.Error(t, err)

	var apiErr *client.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := client.New(srv.URL).DeleteByID(context.Background(), uuid.NewString())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream broke", apiErr.Message)
}
