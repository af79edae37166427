package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Dilyara077/practice-task/migrations/documents"
	"github.com/Dilyara077/practice-task/pkg/config"
	"github.com/Dilyara077/practice-task/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := migrator.RunMigrations(context.Background(), cfg.DatabaseURL, documents.FS); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
