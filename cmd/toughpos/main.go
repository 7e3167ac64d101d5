package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/toughpos/config"
	"github.com/talkincode/toughpos/internal/adminapi"
	"github.com/talkincode/toughpos/internal/app"
	"github.com/talkincode/toughpos/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "/etc/toughpos.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		fmt.Println("database initialized")
		return
	}

	ws := webserver.Init(application)
	adminapi.InitRouter()

	application.StartBackgroundJobs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Listen()
	})
	g.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		zap.S().Infof("toughpos shutdown: %s", err)
	}
}
