package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/relaykit/contact-relay/internal/config"
	"github.com/relaykit/contact-relay/internal/contact"
	"github.com/relaykit/contact-relay/internal/logging"
	"github.com/relaykit/contact-relay/internal/mailer"
	"github.com/relaykit/contact-relay/internal/ratelimit"
)

func main() {
	logger := logging.New()
	cfg := config.Load()

	limiter := ratelimit.New(ratelimit.Window)

	var m mailer.Mailer
	switch cfg.MailDriver {
	case config.DriverSMTP:
		m = &mailer.SMTP{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			SSL:  cfg.SMTP.SSL,
		}
		if cfg.SMTP.Host == "" {
			logger.Warn("SMTP_HOST is not set, submissions will fail until configured")
		}
	default:
		m = mailer.NewResend(cfg.ResendAPIKey)
		if cfg.ResendAPIKey == "" {
			logger.Warn("RESEND_API_KEY is not set, submissions will fail until configured")
		}
	}

	h := contact.NewHandler(cfg, limiter, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(secHeaders)
	r.Use(requestLogger(logger))

	r.Get("/health", handleHealth)
	r.Post("/api/contact", h.HandleSubmit)
	r.Options("/api/contact", h.HandlePreflight)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background sweep for expired rate-limit entries, stopped on shutdown.
	go limiter.Run(ctx, ratelimit.SweepInterval)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("contact-relay listening", "addr", cfg.ListenAddr, "mail_driver", cfg.MailDriver)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
		logger.Info("server stopped")
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func secHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := baseLogger.With(
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", middleware.GetReqID(r.Context()),
			)

			ctx := logging.WithContext(r.Context(), reqLogger)
			r = r.WithContext(ctx)

			lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if rec := recover(); rec != nil {
					reqLogger.Error("panic recovered",
						"err", rec,
						"type", fmt.Sprintf("%T", rec),
						"stack", string(debug.Stack()),
					)
					lrw.WriteHeader(http.StatusInternalServerError)
				}
				duration := time.Since(start)
				level := slog.LevelInfo
				switch {
				case lrw.status >= 500:
					level = slog.LevelError
				case lrw.status >= 400:
					level = slog.LevelWarn
				}
				reqLogger.Log(ctx, level, "request completed",
					"status", lrw.status,
					"duration_ms", duration.Milliseconds(),
					"bytes", lrw.length,
				)
			}()

			next.ServeHTTP(lrw, r)
		})
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	length int
	wrote  bool
}

func (lrw *loggingResponseWriter) WriteHeader(status int) {
	if !lrw.wrote {
		lrw.ResponseWriter.WriteHeader(status)
		lrw.wrote = true
	}
	lrw.status = status
}

func (lrw *loggingResponseWriter) Write(p []byte) (int, error) {
	if !lrw.wrote {
		lrw.WriteHeader(http.StatusOK)
	}
	n, err := lrw.ResponseWriter.Write(p)
	lrw.length += n
	return n, err
}
