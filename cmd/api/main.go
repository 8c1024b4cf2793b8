package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"todoList/internal/app"
	"todoList/internal/config"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Config string `help:"Path to config.yml." default:"config.yml" env:"TODO_CONFIG" short:"c" type:"path"`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("todo-api"),
		kong.Description("HTTP API for the todo list."),
		kong.UsageOnError(),
	)

	if err := run(cli.Config); err != nil {
		fmt.Fprintf(os.Stderr, "todo-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("загрузка конфига: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		return err
	}
	return application.Run(ctx)
}
