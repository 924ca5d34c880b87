package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/secureflow/payment-gateway/internal/config"
	"github.com/secureflow/payment-gateway/internal/idem"
	"github.com/secureflow/payment-gateway/internal/middleware"
	"github.com/secureflow/payment-gateway/internal/paypal"
	"github.com/secureflow/payment-gateway/internal/rest"
	"github.com/secureflow/payment-gateway/internal/router"
	"github.com/secureflow/payment-gateway/internal/service"
	"github.com/secureflow/payment-gateway/internal/store"
	"github.com/secureflow/payment-gateway/internal/token"
)

func run(ctx context.Context) error {
	slog.Info("starting payment gateway")

	cfg := config.FromEnv()
	db, err := store.NewPostgresDB(store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer db.Close()

	pgs := store.NewPostgresStore(db)

	issuer := token.NewJWTIssuer(token.JwtConfig{
		Secret: token.NewSecretString(cfg.JWT.Secret),
		Issuer: "payment-gateway",
		TTL:    cfg.JWT.TTL,
	})

	provider := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.PayPal.BaseURL,
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
		Timeout:      cfg.PayPal.Timeout,
	})

	paymentOpts := []service.PaymentsOption{
		service.WithProvider(provider),
		service.WithStore(pgs),
	}
	if cfg.Redis.Enabled {
		rds := idem.NewRedis(idem.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		defer rds.Close()
		paymentOpts = append(paymentOpts, service.WithIdempotency(rds))
	}

	users := service.NewUsers(pgs, issuer)
	payments := service.NewPayments(paymentOpts...)

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	api := r.SubRouter("/api")
	api.Handle("/", rest.NewAPI(users, payments, issuer))

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("payment gateway terminated with error", "error", err)
		os.Exit(1)
	}
}
