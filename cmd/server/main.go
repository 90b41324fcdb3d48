package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizpulse/bizpulse/internal/api"
	"github.com/bizpulse/bizpulse/internal/config"
	"github.com/bizpulse/bizpulse/internal/db"
	"github.com/bizpulse/bizpulse/internal/middleware"
	"github.com/bizpulse/bizpulse/internal/services"
)

func main() {
	root := &cobra.Command{
		Use:           "bizpulse",
		Short:         "Business health and franchise readiness assessment server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())
	if err := root.Execute(); err != nil {
		log.Printf("bizpulse: %v", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed data, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			conn, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := db.RunMigrations(conn, cfg.MigrationsDir); err != nil {
				return err
			}
			log.Printf("migrations applied to %s", cfg.DBPath)
			return nil
		},
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", db.DSN(cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return conn, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsDir); err != nil {
		return err
	}
	store, err := db.NewStore(conn)
	if err != nil {
		return err
	}

	// Keep the configured admin credentials current across restarts.
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := store.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, hash); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecret)
	catalog := services.NewCatalogService(store)
	router := &api.Router{
		Catalog:     catalog,
		Submissions: services.NewSubmissionService(catalog, store),
		Users:       services.NewUserService(store),
		Analytics:   services.NewAnalyticsService(store),
		Auth:        services.NewAuthService(store, auth.SignToken),
		Reports:     services.NewReportService(store),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Register(mux)

	handler := middleware.RequestID(middleware.CORS(middleware.SecureHeaders(auth.WithAuth(mux))))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("bizpulse listening on %s (db=%s)", cfg.Addr, cfg.DBPath)
	return srv.ListenAndServe()
}
