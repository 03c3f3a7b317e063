package main

import (
	"context"
	"log"

	"github.com/harshal4412/ephemeral/internal/client/cli"
	"github.com/harshal4412/ephemeral/internal/client/config"
)

func main() {

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
