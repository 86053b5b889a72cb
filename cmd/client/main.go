package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/ele/internal/client/cli"
	"github.com/dmitrijs2005/ele/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, cli.NewDefaultLogger())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(context.Background())
}
