package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/leadsession/internal/buildinfo"
	"github.com/dmitrijs2005/leadsession/internal/devserver"
	"github.com/dmitrijs2005/leadsession/internal/devserver/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout, "leads dev")

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := devserver.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
