package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/config"
	"github.com/iliyamo/fitness-class-booking/internal/database"
	"github.com/iliyamo/fitness-class-booking/internal/handler"
	"github.com/iliyamo/fitness-class-booking/internal/queue"
	"github.com/iliyamo/fitness-class-booking/internal/repository"
	"github.com/iliyamo/fitness-class-booking/internal/router"
	queue_publisher "github.com/iliyamo/fitness-class-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional; a nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	classes := repository.NewClassRepo(db)
	bookings := repository.NewBookingRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	classH := handler.NewClassHandler(classes)
	bookH := handler.NewBookingHandler(bookings, classes, queue_publisher.PublishBookingConfirmed)

	e := echo.New()
	router.RegisterRoutes(e, authH)
	router.RegisterAPI(e, authH, classH, bookH, cfg.JWTSecret, rdb)

	// Consume booking.confirmed events in the background; the consumer
	// reconnects on its own and never brings the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
