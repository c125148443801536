package main

import (
	"context"
	"fitnote/planner/internal/catalog"
	"fitnote/planner/internal/cli"
	"fitnote/planner/internal/config"
	"fitnote/planner/internal/repository"
	"fitnote/planner/internal/storage"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	open := func() (repository.KeyValueStore, func() error, error) {
		backend, err := storage.Open(cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return backend.Store, backend.Close, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(catalog.Default(), open, cfg.Storage.Timeout)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
