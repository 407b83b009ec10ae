package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/leadsession/internal/buildinfo"
	"github.com/dmitrijs2005/leadsession/internal/client/cli"
	"github.com/dmitrijs2005/leadsession/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout, "leads")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
