package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	directory "github.com/userfactory/go-directory"
)

func main() {
	cfg := LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := directory.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := directory.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatalf("validate repositories: %v", err)
	}

	policy := directory.NewPolicy(repo.Accounts())

	if _, err := policy.SeedDefaultAdmin(ctx, directory.DefaultAdmin{
		Login:    cfg.AdminLogin,
		Password: cfg.AdminPassword,
		Name:     cfg.AdminName,
	}); err != nil {
		if !errors.Is(err, directory.ErrLoginTaken) {
			log.Fatalf("seed default admin: %v", err)
		}
		log.Printf("default admin %q already present, skipping seed", cfg.AdminLogin)
	} else {
		log.Printf("seeded default admin %q", cfg.AdminLogin)
	}

	auther := directory.NewAuthenticator(policy, cfg)

	httpAuther, err := directory.NewHTTPAuthenticator(auther, cfg)
	if err != nil {
		log.Fatalf("http authenticator: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "go-directory",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	directory.RegisterRoutes(app,
		directory.WithControllerPolicy(policy),
		directory.WithControllerAuther(httpAuther),
	)

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			log.Printf("server stopped: %v", err)
			cancel()
		}
	}()
	log.Printf("listening on %s", cfg.HTTPAddr)

	waitExitSignal(ctx)

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	if err := sqldb.Ping(); err != nil {
		return nil, err
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// waitExitSignal blocks until the process receives an interrupt or the
// context is cancelled, whichever happens first.
func waitExitSignal(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("received %s, shutting down", sig)
	case <-ctx.Done():
	}
}
