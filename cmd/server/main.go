package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/evergreenmedia/podcast-partner-api/internal/config"
	"github.com/evergreenmedia/podcast-partner-api/internal/database"
	"github.com/evergreenmedia/podcast-partner-api/internal/handler"
	"github.com/evergreenmedia/podcast-partner-api/internal/middleware"
	"github.com/evergreenmedia/podcast-partner-api/internal/queue"
	"github.com/evergreenmedia/podcast-partner-api/internal/repository"
	"github.com/evergreenmedia/podcast-partner-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// The client probes connectivity; an unreachable or misconfigured
	// database stops the process here rather than on the first request.
	client, err := repository.NewClient(db, database.Addr(cfg.DBHost, cfg.DBPort))
	if err != nil {
		log.Fatalf("database probe failed: %v", err)
	}
	log.Println("database connection verified")

	shows := repository.NewShowRepo(client)
	users := repository.NewUserRepo(client)
	tokens := repository.NewTokenRepo(client)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	showHandler := handler.NewShowHandler(shows)
	partnerHandler := handler.NewPartnerHandler(cfg, users, shows, tokens)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.ResponseCache(config.LoadCacheConfig(), rdb)
	router.Register(e, authHandler, showHandler, partnerHandler, cfg.JWTSecret, cacheMW)

	go queue.StartImportConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
