package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/flea-market/internal/config"
	"github.com/iliyamo/flea-market/internal/database"
	"github.com/iliyamo/flea-market/internal/handler"
	"github.com/iliyamo/flea-market/internal/model"
	"github.com/iliyamo/flea-market/internal/queue"
	"github.com/iliyamo/flea-market/internal/repository"
	"github.com/iliyamo/flea-market/internal/router"
)

func main() {
	_ = godotenv.Load() // absent .env is fine; env vars may come from the process
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	items := repository.NewItemRepo(db)
	requests := repository.NewRequestRepo(db)
	ratings := repository.NewRatingRepo(db)
	tokens := repository.NewTokenRepo(db)

	seedAdmin(cfg, users)

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		Items:   handler.NewItemHandler(items),
		Request: handler.NewRequestHandler(requests, items, users),
		Rating:  handler.NewRatingHandler(ratings),
		Admin:   handler.NewAdminHandler(cfg, users, requests),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, tokens, rdb)

	go queue.StartAcceptedConsumer()
	go purgeBlacklist(tokens)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the bootstrap admin account when all three ADMIN_* vars
// are set. An already-existing username or email is not an error.
func seedAdmin(cfg config.Config, users *repository.UserRepo) {
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := users.Create(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, model.RoleAdmin, cfg.BcryptCost)
	switch err {
	case nil:
		log.Printf("admin user %q created", cfg.AdminUsername)
	case repository.ErrUsernameExists, repository.ErrEmailExists:
		log.Printf("admin user %q already exists", cfg.AdminUsername)
	default:
		log.Fatalf("seed admin: %v", err)
	}
}

// purgeBlacklist periodically removes blacklist rows whose tokens are past
// their natural expiry. The table stays small without any operator action.
func purgeBlacklist(tokens *repository.TokenRepo) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := tokens.PurgeExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("blacklist purge: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("blacklist purge: removed %d expired entries", n)
		}
	}
}
