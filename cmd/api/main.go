package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secondhand-market/internal/auth"
	"secondhand-market/internal/client"
	"secondhand-market/internal/config"
	"secondhand-market/internal/logging"
	"secondhand-market/internal/server"
	"secondhand-market/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := client.OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("close store", "error", err)
		}
	}()

	paymentClient, err := client.NewPaymentClient(cfg)
	if err != nil {
		return fmt.Errorf("init payment client: %w", err)
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)

	users := service.NewUserService(store, log)
	if err := users.ProvisionAdmins(ctx, cfg.Admin.UIDs); err != nil {
		return fmt.Errorf("provision admins: %w", err)
	}

	srv := server.NewServer(server.Services{
		Users:    users,
		Products: service.NewProductService(store, log),
		Bookings: service.NewBookingService(store, log),
		Wishlist: service.NewWishlistService(store),
		Payments: service.NewPaymentService(store, paymentClient, cfg.Payment.Currency, log),
	}, tokens, log)

	addr := cfg.HTTP.Address()
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", addr, "env", cfg.Environment.Name, "db", cfg.Database.Driver)
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
