package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/voyago/travel-planner/internal/config"
	"github.com/voyago/travel-planner/internal/database"
	"github.com/voyago/travel-planner/internal/handler"
	"github.com/voyago/travel-planner/internal/queue"
	"github.com/voyago/travel-planner/internal/repository"
	"github.com/voyago/travel-planner/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; cache and rate limiting then disable themselves.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
				log.Printf("booking consumer stopped: %v", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	plans := repository.NewPlanRepo(db)
	reservations := repository.NewReservationRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterTrips(e, handler.NewTripHandler(plans, reservations, cfg.AMQPURL), rdb)
	router.RegisterUser(e, handler.NewReservationHandler(reservations), handler.NewProfileHandler(cfg, users))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
