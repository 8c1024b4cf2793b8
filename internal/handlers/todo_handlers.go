package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"todoList/internal/logger"
	"todoList/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const createContentMessage = "You missed to provide a content to create a todo"

type TodoHandler struct {
	Repository Repository
}

func NewTodoHandler(repo Repository) *TodoHandler {
	return &TodoHandler{
		Repository: repo,
	}
}

type listTodosQuery struct {
	Page  *float64 `schema:"page"`
	Limit *float64 `schema:"limit"`
}

type createTodoRequest struct {
	Content string `json:"content" validate:"required"`
}

// GetTodos GET /todos?page=&limit=
func (h *TodoHandler) GetTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var query listTodosQuery
	err := schemaDecoder.Decode(&query, r.URL.Query())
	if field, bad := firstInvalidNumber(err,
		numberParam{"page", query.Page},
		numberParam{"limit", query.Limit},
	); bad {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", field),
			zap.String("raw_query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr))
		responseWithErrorObject(w, http.StatusBadRequest, fmt.Sprintf("`%s` must be a number", field))
		return
	}

	params := repository.GetParams{}
	if query.Page != nil {
		params.Page = truncToInt(*query.Page)
	}
	if query.Limit != nil {
		params.Limit = truncToInt(*query.Limit)
	}

	page, err := h.Repository.Get(r.Context(), params)
	if err != nil {
		handleRepositoryError(w, r, err, "list_todos", internalErrorMessage)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(page.Todos)),
		zap.Int("total", page.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
	responseWithBody(w, http.StatusOK, page)
}

// PostTodo POST /todos
func (h *TodoHandler) PostTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")
	defer r.Body.Close()

	var request createTodoRequest
	if issues := decodeJSONBody(r, &request); len(issues) > 0 {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", issues[0].Field),
			zap.String("error", issues[0].Message),
			zap.String("client_ip", r.RemoteAddr))
		responseWithErrorObject(w, http.StatusBadRequest, createContentMessage,
			toPayload("description", issues))
		return
	}

	created, err := h.Repository.CreateByContent(r.Context(), request.Content)
	if err != nil {
		handleRepositoryError(w, r, err, "create_todo", internalErrorMessage)
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("todo_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))
	responseWithJSON(w, http.StatusCreated, toPayload("todo", created))
}

// ToggleDone PUT /todos/{id}/toggle-done
func (h *TodoHandler) ToggleDone(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := canonicalID(chi.URLParam(r, "id"))
	if err := validate.Var(id, "required"); err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "You must provide a string ID")
		return
	}

	updated, err := h.Repository.ToggleDone(r.Context(), id)
	if err != nil {
		handleRepositoryError(w, r, err, "toggle_done", notFoundMessage(err))
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("todo_id", id),
		zap.Bool("done", updated.Done),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))
	responseWithJSON(w, http.StatusOK, toPayload("todo", updated))
}

// DeleteTodo DELETE /todos/{id}
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id := canonicalID(chi.URLParam(r, "id"))
	if err := validate.Var(id, "required,uuid"); err != nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", id),
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "You must provide a valid ID")
		return
	}

	if err := h.Repository.DeleteByID(r.Context(), id); err != nil {
		handleRepositoryError(w, r, err, "delete_todo", fmt.Sprintf("Failed to delete resource with id %s", id))
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("todo_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))
	responseNoContent(w)
}

func (h *TodoHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	logger.Warn("HTTP: Неверный метод",
		zap.String("received", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", r.RemoteAddr))
	responseWithErrorObject(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *TodoHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	responseWithErrorObject(w, http.StatusNotFound, "Not found")
}

func notFoundMessage(err error) string {
	var repoErr *repository.Error
	if errors.As(err, &repoErr) {
		return repoErr.Message
	}
	return err.Error()
}
