package handlers

import (
	"context"
	"todoList/internal/models/todo"
	"todoList/internal/repository"
)

type Repository interface {
	Get(context.Context, repository.GetParams) (*repository.Page, error)
	CreateByContent(context.Context, string) (*todo.Todo, error)
	ToggleDone(context.Context, string) (*todo.Todo, error)
	DeleteByID(context.Context, string) error
	HealthCheck(context.Context) error
}
