package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/amirfagh/justeat/configs"
	"github.com/amirfagh/justeat/pkg/events"
	"github.com/amirfagh/justeat/repository"
	"github.com/amirfagh/justeat/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := configs.LoadConfig()
	if err != nil {
		fatal("load config failed", err)
	}
	ctx := context.Background()

	// DB
	db, err := configs.ConnectionDB(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		fatal("connect database failed", err)
	}
	if err := configs.SetupDatabase(db); err != nil {
		fatal("migrate failed", err)
	}

	// seed
	if err := configs.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		fatal("seed admin failed", err)
	}
	if err := configs.SeedSettings(db); err != nil {
		fatal("seed settings failed", err)
	}
	if cfg.MenuSeedFile != "" {
		if _, err := configs.SeedMenu(ctx, repository.NewMenuRepository(db), cfg.MenuSeedFile); err != nil {
			fatal("seed menu failed", err)
		}
	}
	if cfg.SequenceStart != nil {
		if err := configs.SeedOrderSequence(ctx, repository.NewSequenceRepository(db), *cfg.SequenceStart); err != nil {
			fatal("seed order sequence failed", err)
		}
	}

	// events
	var pub events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		pub, err = events.DialRabbitMQ(cfg.AMQPURL)
		if err != nil {
			fatal("connect rabbitmq failed", err)
		}
		defer pub.Close()
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, db, cfg, pub)

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("server running", "addr", addr)
	if err := r.Run(addr); err != nil {
		fatal("server stopped", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
