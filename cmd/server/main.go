// Command server runs the inventory tracking API.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/stocktrack/stocktrack/internal/app"
	"github.com/stocktrack/stocktrack/internal/app/httpapi"
	"github.com/stocktrack/stocktrack/internal/app/storage/postgres"
	"github.com/stocktrack/stocktrack/internal/config"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

func main() {
	// Missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logOut := os.Stdout
	if cfg.Logging.Output == "stderr" {
		logOut = os.Stderr
	}
	log := logger.New("server", logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOut,
	})

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	var stores app.Stores
	var db *sql.DB

	if cfg.Database.DSN != "" {
		var err error
		db, err = openDatabase(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Apply(ctx, db); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		if cfg.Database.Seed {
			if err := postgres.Seed(ctx, db); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
		}

		store := postgres.New(db)
		stores = app.Stores{
			Users:      store,
			Sessions:   store,
			Categories: store,
			Suppliers:  store,
			Products:   store,
			Stats:      store,
		}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	application := app.New(stores, log)
	application.Auth.WithTTL(time.Duration(cfg.Auth.SessionTTL))

	handler := httpapi.NewHandler(application, httpapi.Config{
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		SecureCookies:     cfg.Production(),
		AuthRatePerSecond: cfg.Auth.RatePerSecond,
		AuthBurst:         cfg.Auth.RateBurst,
	}, log)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Infof("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
