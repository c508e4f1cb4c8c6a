package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shortspace/internal/platform/config"
	"shortspace/internal/platform/database"
	"shortspace/internal/platform/repositories"
	"shortspace/internal/pkg/logger"
	"shortspace/internal/workers"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	interval := flag.Duration("interval", time.Hour, "Sweep interval")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := workers.NewInvitationSweeper(repositories.NewInvitationRepository(db), *interval)
	log.Printf("Invitation sweeper starting, interval %v", *interval)
	sweeper.Sweep()
	sweeper.Run(ctx)
}
