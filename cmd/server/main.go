package main // Entry point package

import (
	"context" // Schema bootstrap and cache purge contexts
	"log"     // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/greenspro/auth-backend/internal/config"
	"github.com/greenspro/auth-backend/internal/database"
	"github.com/greenspro/auth-backend/internal/handler"
	"github.com/greenspro/auth-backend/internal/mailer"
	"github.com/greenspro/auth-backend/internal/middleware"
	"github.com/greenspro/auth-backend/internal/queue"
	"github.com/greenspro/auth-backend/internal/repository"
	"github.com/greenspro/auth-backend/internal/router"
	"github.com/greenspro/auth-backend/internal/service"
)

func main() {
	_ = godotenv.Load()  // .env is optional; real env vars win
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Optional collaborators: rate limiter and response cache degrade to
	// pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	users := repository.NewUserRepo(db)
	admins := repository.NewAdminRepo(db)

	m := mailer.New(mailer.LoadConfig())
	notifier := service.NewResetNotifier(cfg.FrontendURL, m)

	authH := handler.NewAuthHandler(cfg, users, notifier)
	adminH := handler.NewAdminHandler(cfg, users, admins)
	if rdb != nil {
		adminH.Purge = func(ctx context.Context) {
			if err := middleware.PurgeCache(ctx, rdb, cacheCfg); err != nil {
				log.Printf("cache purge: %v", err)
			}
		}
	}

	// Background consumer that turns reset events into emails.
	go func() {
		if err := queue.StartResetMailConsumer(m); err != nil {
			log.Printf("reset-mail-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	limiter := middleware.NewTokenBucket(rlCfg, rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, limiter)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, limiter, cache)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
