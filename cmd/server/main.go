package main

import (
	"context"
	"log"

	"github.com/akoselev/eshop/internal/server"
	"github.com/akoselev/eshop/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app.Run(context.Background())
}
