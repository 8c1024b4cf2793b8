package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"todoList/internal/models/todo"
)

const defaultTimeout = 10 * time.Second

type Page struct {
	Todos []*todo.Todo `json:"todos"`
	Total int          `json:"total"`
	Pages int          `json:"pages"`
}

// APIError - ответ сервера со статусом вне 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todo api: %d %s", e.StatusCode, e.Message)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client - типизированный HTTP клиент к API задач. Бизнес-логики нет.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, page, limit int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out Page
	if err := c.do(ctx, http.MethodGet, "/todos?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.Todos == nil {
		out.Todos = []*todo.Todo{}
	}
	return &out, nil
}

func (c *Client) CreateByContent(ctx context.Context, content string) (*todo.Todo, error) {
	var out struct {
		Todo *todo.Todo `json:"todo"`
	}
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/todos", body, &out); err != nil {
		return nil, err
	}
	return out.Todo, nil
}

func (c *Client) ToggleDone(ctx context.Context, id string) (*todo.Todo, error) {
	var out struct {
		Todo *todo.Todo `json:"todo"`
	}
	if err := c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id)+"/toggle-done", nil, &out); err != nil {
		return nil, err
	}
	return out.Todo, nil
}

func (c *Client) DeleteByID(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("кодирование запроса: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("декодирование ответа: %w", err)
	}
	return nil
}

// errorMessage достаёт текст из {"error":"..."} или
// {"error":{"message":"..."}}.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Error) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		return text
	}
	var object struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &object); err == nil {
		return object.Message
	}
	return string(envelope.Error)
}
