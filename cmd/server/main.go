package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gatepass/visitor-management/internal/auth"
	"github.com/gatepass/visitor-management/internal/config"
	"github.com/gatepass/visitor-management/internal/database"
	"github.com/gatepass/visitor-management/internal/handler"
	"github.com/gatepass/visitor-management/internal/mailer"
	"github.com/gatepass/visitor-management/internal/queue"
	"github.com/gatepass/visitor-management/internal/router"
	"github.com/gatepass/visitor-management/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	var (
		visitors store.VisitorStore
		admins   store.AdminStore
		tokens   store.TokenStore
	)
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		// Only dev runs may fall back to volatile in-memory stores.
		if cfg.Env != "dev" {
			log.Fatalf("cannot connect to database: %v", err)
		}
		log.Printf("database unavailable, using in-memory stores (env=dev): %v", err)
		visitors = store.NewMemoryVisitorStore()
		admins = store.NewMemoryAdminStore()
		tokens = store.NewMemoryTokenStore()
	} else {
		visitors = store.NewMySQLVisitorStore(db)
		admins = store.NewMySQLAdminStore(db)
		tokens = store.NewMySQLTokenStore(db)
	}

	// Seed the first admin account when ADMIN_USERNAME is set, so the
	// console is reachable on a fresh deployment.
	if cfg.AdminUser != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		created, err := auth.EnsureAdmin(ctx, admins, cfg.AdminUser, cfg.AdminPass, cfg.BcryptCost)
		cancel()
		if err != nil {
			log.Fatalf("seed admin account: %v", err)
		}
		if created {
			log.Printf("seeded admin account %q", cfg.AdminUser)
		}
	}

	m := mailer.New(cfg.SMTP)
	if !cfg.SMTP.IsConfigured() {
		log.Printf("SMTP not configured; pass emails run in dev mode")
	}

	vh := handler.NewVisitorHandler(visitors, m, cfg.StrictStatus)
	ah := handler.NewAuthHandler(cfg, admins, tokens)

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	// Background consumer for visit.completed: audit log + async pass email.
	go func() {
		if err := queue.StartVisitConsumer(visitors, m); err != nil {
			log.Printf("visit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, vh, ah, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
