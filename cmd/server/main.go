package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servcore/internal/adapters/httpapi"
	"servcore/internal/application"
	"servcore/internal/config"
	"servcore/internal/infrastructure/database"
	"servcore/internal/infrastructure/i18n"
	"servcore/internal/infrastructure/lock"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	eventRepo := database.NewEventRepository(pool)
	roleRepo := database.NewRoleRepository(pool)
	registrationRepo := database.NewRegistrationRepository(pool)
	locker := lock.NewManager()
	translator := i18n.NewTranslator(cfg.DefaultLocale)

	engine := application.NewRegistrationService(eventRepo, roleRepo, registrationRepo, locker, cfg.LockTimeout)
	admin := application.NewAdminService(eventRepo, roleRepo, registrationRepo, locker, cfg.LockTimeout)

	handler := httpapi.NewHandler(engine, admin, translator, locker)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpapi.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown: %v", err)
	}
	log.Println("server stopped")
}
