package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chorebattle/backend/internal/auth"
	"github.com/chorebattle/backend/internal/config"
	"github.com/chorebattle/backend/internal/db"
	"github.com/chorebattle/backend/internal/model"
	"github.com/chorebattle/backend/internal/server"
	"github.com/chorebattle/backend/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Household{},
		&model.ChoreRank{},
		&model.ChoreFrequency{},
		&model.Chore{},
		&model.ChoreCompletion{},
		&model.PointHistory{},
		&model.Reward{},
		&model.RewardClaim{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	var uploader *storage.PhotoUploader
	if cfg.StorageBucket != "" {
		uploader, err = storage.NewPhotoUploader(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		defer uploader.Close()
	} else {
		log.Printf("STORAGE_BUCKET not set; photo uploads disabled")
	}

	srv := server.New(conn, tokens, uploader)
	addr := ":" + cfg.Port

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("server stopped: %v", err)
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
