package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/ele/internal/server"
	"github.com/dmitrijs2005/ele/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg, server.NewDefaultLogger())
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(context.Background()); err != nil {
		log.Printf("%v", err)
	}
}
