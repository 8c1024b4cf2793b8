package main

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"todoList/internal/handlers"
	"todoList/internal/repository"
	"todoList/internal/storage/inmemory"

	"github.com/alecthomas/kong"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) string {
	t.Helper()
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, handlers.NewTodoHandler(repository.NewTodoRepository(inmemory.NewTodoStorage())))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := &CLI{Globals: Globals{Out: &out}}

	parser, err := kong.New(cli, kong.Name("todo"), kong.Exit(func(int) {}))
	require.NoError(t, err)

	ctx, err := parser.Parse(append([]string{"--base-url", baseURL}, args...))
	require.NoError(t, err)

	err = ctx.Run(&cli.Globals)
	return out.String(), err
}

func TestCLI_Flow(t *testing.T) {
	baseURL := newAPI(t)

	for _, content := range []string{"Buy milk", "Walk dog", "Milk the cow"} {
		out, err := runCLI(t, baseURL, "create", content)
		require.NoError(t, err)
		assert.Contains(t, out, content)
	}

	out, err := runCLI(t, baseURL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Milk the cow")
	assert.Contains(t, out, "Walk dog")
	assert.NotContains(t, out, "Buy milk")
	assert.Contains(t, out, "more: todo list --page 2")

	out, err = runCLI(t, baseURL, "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, "more:")

	out, err = runCLI(t, baseURL, "list", "--search", "MILK")
	require.NoError(t, err)
	assert.Contains(t, out, "Milk the cow")
	assert.NotContains(t, out, "Walk dog")
}

func TestCLI_CreateEmpty(t *testing.T) {
	_, err := runCLI(t, newAPI(t), "create", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Нужно указать текст задачи")
}

func TestCLI_ToggleAndDeleteMissing(t *testing.T) {
	baseURL := newAPI(t)
	id := uuid.NewString()

	out, err := runCLI(t, baseURL, "toggle", id)
	require.Error(t, err)
	// экран обновляется до ответа сервера
	assert.Contains(t, out, "toggled "+id)

	out, err = runCLI(t, baseURL, "delete", id)
	require.Error(t, err)
	assert.NotContains(t, out, "deleted")
}

func TestRenderPage_Empty(t *testing.T) {
	var out bytes.Buffer
	renderPage(&out, nil, 1, 0, 0)
	assert.Contains(t, out.String(), "nothing here")
	assert.Contains(t, out.String(), "page 1 of 1")
}
