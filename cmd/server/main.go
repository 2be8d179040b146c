package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-reservation/internal/config"
	"github.com/parkwise/parking-reservation/internal/database"
	"github.com/parkwise/parking-reservation/internal/handler"
	"github.com/parkwise/parking-reservation/internal/middleware"
	"github.com/parkwise/parking-reservation/internal/queue"
	"github.com/parkwise/parking-reservation/internal/reconcile"
	"github.com/parkwise/parking-reservation/internal/repository"
	"github.com/parkwise/parking-reservation/internal/router"
	queue_publisher "github.com/parkwise/parking-reservation/internal/service"
	"github.com/parkwise/parking-reservation/internal/workflow"
)

func main() {
	// Local development reads .env; in production the variables come
	// from the environment and a missing file is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	lots := repository.NewLotRepo(db)
	slots := repository.NewSlotRepo(db)
	bookings := repository.NewBookingRepo(db)
	notifications := repository.NewNotificationRepo(db)

	// Redis backs the rate limiter and the reconciliation override
	// store. Both degrade when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting disabled, merged views may be stale")
	}
	overrides := reconcile.NewOverrideStore(rdb, time.Duration(cfg.OverrideTTLMin)*time.Minute)

	flow := workflow.New(db, lots, slots, bookings, queue_publisher.PublishBookingEvent, overrides)

	// The consumer turns booking transition events into inbox
	// notifications. It reconnects on broker failure and never takes
	// the API down with it.
	go func() {
		if err := queue.StartBookingConsumer(notifications); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	if rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}

	authH := handler.NewAuthHandler(cfg, users, tokens, lots, slots)
	publicH := handler.NewPublicLotHandler(lots, slots)
	customerH := handler.NewCustomerBookingHandler(flow, users, bookings, overrides)
	notifH := handler.NewNotificationHandler(notifications)
	adminLotH := handler.NewAdminLotHandler(flow, lots)
	adminBookingH := handler.NewAdminBookingHandler(flow, lots, bookings, overrides)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicH)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCustomer(e, customerH, notifH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminLotH, adminBookingH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
