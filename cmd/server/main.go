package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-place-reservation/internal/config"
	"github.com/iliyamo/study-place-reservation/internal/database"
	"github.com/iliyamo/study-place-reservation/internal/engine"
	"github.com/iliyamo/study-place-reservation/internal/handler"
	"github.com/iliyamo/study-place-reservation/internal/middleware"
	"github.com/iliyamo/study-place-reservation/internal/queue"
	"github.com/iliyamo/study-place-reservation/internal/repository"
	"github.com/iliyamo/study-place-reservation/internal/router"
	"github.com/iliyamo/study-place-reservation/internal/service"
	"github.com/iliyamo/study-place-reservation/internal/storage"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	places := repository.NewStudyPlaceRepo(db)
	reservations := repository.NewReservationRepo(db)
	reactions := repository.NewReactionRepo(db)
	comments := repository.NewCommentRepo(db)
	users := repository.NewUserRepo(db)

	var blobs *storage.BlobStore
	if cfg.MinIOEndpoint != "" {
		blobs, err = storage.New(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
			cfg.MinIOBucket, cfg.MinIOPublicURL, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("blob storage: %v", err)
		}
	} else {
		log.Println("blob storage disabled: MINIO_ENDPOINT not set")
	}

	var events engine.Publisher
	if cfg.RabbitURL != "" {
		events = service.NewEventPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartDecidedConsumer(cfg.RabbitURL); err != nil {
				log.Printf("decided-consumer stopped: %v", err)
			}
		}()
	} else {
		log.Println("event publishing disabled: RABBITMQ_URL not set")
	}

	// BlobStore is an interface; pass nil explicitly when uploads are off
	// so the engine sees a nil interface rather than a typed nil.
	var engineBlobs engine.BlobStore
	if blobs != nil {
		engineBlobs = blobs
	}
	eng := engine.New(db, places, reservations, reactions, comments,
		engineBlobs, events, engine.SystemClock(), cfg.EngineTimeout)

	// Confirmed reservations whose slot has elapsed are flipped to
	// completed in the background.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := eng.CompleteElapsed(context.Background())
			if err != nil {
				log.Printf("completion sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("completion sweep: %d reservations completed", n)
			}
		}
	}()

	e := echo.New()
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	} else {
		log.Println("rate limiting disabled: redis not reachable")
	}

	var uploader handler.Uploader
	if blobs != nil {
		uploader = blobs
	}
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Places:       handler.NewStudyPlaceHandler(eng, uploader),
		Reservations: handler.NewReservationHandler(eng),
		Approvals:    handler.NewApprovalHandler(eng),
		Reactions:    handler.NewReactionHandler(eng),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
