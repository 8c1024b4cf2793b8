package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"todoList/internal/client"
	"todoList/internal/client/controller"
	"todoList/internal/config"
	"todoList/internal/models/todo"

	"github.com/alecthomas/kong"
)

type Globals struct {
	BaseURL string    `help:"API base URL. Overrides client.base_url from the config." env:"TODO_CLIENT_BASE_URL" name:"base-url"`
	Config  string    `help:"Path to config.yml." default:"config.yml" env:"TODO_CONFIG" short:"c" type:"path"`
	Out     io.Writer `kong:"-"`
}

func (g *Globals) controller() (*controller.Controller, error) {
	baseURL := g.BaseURL
	if baseURL == "" {
		cfg, err := config.Load(g.Config)
		if err != nil {
			return nil, err
		}
		baseURL = cfg.Client.BaseURL
	}
	return controller.New(client.New(baseURL)), nil
}

type CLI struct {
	Globals

	List   ListCmd   `cmd:"" default:"withargs" help:"List todos, most recent first."`
	Create CreateCmd `cmd:"" help:"Create a todo."`
	Toggle ToggleCmd `cmd:"" help:"Toggle the done flag of a todo."`
	Delete DeleteCmd `cmd:"" help:"Delete a todo."`
}

type ListCmd struct {
	Page   int    `help:"Page to show." default:"1" short:"p"`
	Search string `help:"Show only todos containing this text." short:"s"`
}

func (c *ListCmd) Run(g *Globals) error {
	ctrl, err := g.controller()
	if err != nil {
		return err
	}

	page, err := ctrl.Get(context.Background(), c.Page)
	if err != nil {
		return err
	}

	todos := controller.FilterTodosByContent(c.Search, page.Todos)
	renderPage(g.Out, todos, c.Page, page.Pages, page.Total)
	return nil
}

type CreateCmd struct {
	Content string `arg:"" optional:"" help:"Todo text."`
}

func (c *CreateCmd) Run(g *Globals) error {
	ctrl, err := g.controller()
	if err != nil {
		return err
	}

	var failure error
	ctrl.Create(context.Background(), controller.CreateParams{
		Content: c.Content,
		OnError: func(message string) {
			failure = errors.New(message)
		},
		OnSuccess: func(created *todo.Todo) {
			ok(g.Out, "created")
			fmt.Fprintln(g.Out, "  "+todoLine(created))
		},
	})
	ctrl.Wait()
	return failure
}

type ToggleCmd struct {
	ID string `arg:"" help:"Todo id."`
}

func (c *ToggleCmd) Run(g *Globals) error {
	ctrl, err := g.controller()
	if err != nil {
		return err
	}

	var failure error
	ctrl.ToggleDone(context.Background(), controller.MutationParams{
		TodoID: c.ID,
		UpdateTodoOnScreen: func() {
			ok(g.Out, "toggled "+c.ID)
		},
		OnError: func() {
			failure = fmt.Errorf("could not toggle %s, the change above was not saved", c.ID)
		},
	})
	ctrl.Wait()
	return failure
}

type DeleteCmd struct {
	ID string `arg:"" help:"Todo id."`
}

func (c *DeleteCmd) Run(g *Globals) error {
	ctrl, err := g.controller()
	if err != nil {
		return err
	}

	var failure error
	ctrl.DeleteByID(context.Background(), controller.MutationParams{
		TodoID: c.ID,
		UpdateTodoOnScreen: func() {
			ok(g.Out, "deleted "+c.ID)
		},
		OnError: func() {
			failure = fmt.Errorf("could not delete %s", c.ID)
		},
	})
	return failure
}

func main() {
	cli := &CLI{Globals: Globals{Out: os.Stdout}}
	ctx := kong.Parse(cli,
		kong.Name("todo"),
		kong.Description("Command-line client for the todo list API."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli.Globals); err != nil {
		fail(os.Stderr, err.Error())
		os.Exit(1)
	}
}
