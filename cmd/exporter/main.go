package main

import (
	"context"
	"log"

	"github.com/kedr891/steam-inventory/config"
	"github.com/kedr891/steam-inventory/internal/app"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	if err := app.RunExporter(context.Background(), cfg); err != nil {
		log.Fatalf("app terminated: %v", err)
	}
}
