package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/poll-profile/internal/adapters/handler/http"
	"github.com/vncsmyrnk/poll-profile/internal/adapters/remote/pollservice"
	"github.com/vncsmyrnk/poll-profile/internal/config"
	"github.com/vncsmyrnk/poll-profile/internal/core/ports"
	"github.com/vncsmyrnk/poll-profile/internal/core/services"
)

func main() {
	cfg, err := config.Load("server", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, every viewer is anonymous")
	}

	client := pollservice.NewClient(cfg.PollServiceURL, cfg.RequestTimeout, logger)

	newPage := func(segment string, outbox *http.Outbox) (ports.ProfilePage, error) {
		page, err := services.NewProfilePage(segment, services.ProfilePageConfig{
			Polls:     client,
			Users:     client,
			Notifier:  outbox,
			Clipboard: outbox,
			Origin:    cfg.PublicOrigin,
			Policy:    cfg.Policy,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	profileHandler, err := http.NewProfileHandler(newPage, http.NewSessionStore(cfg.SessionTTL), logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build profile handler")
	}
	handler := http.NewHandler(profileHandler, http.ViewerMiddleware([]byte(cfg.JWTSecret), logger))
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("addr", cfg.Addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("shutdown failed")
	}
}
