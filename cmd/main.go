package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/artusm/funny-learn-notifier/pkg/api"
	"github.com/artusm/funny-learn-notifier/pkg/config"
	"github.com/artusm/funny-learn-notifier/pkg/logging"
	"github.com/artusm/funny-learn-notifier/pkg/metrics"
	appmw "github.com/artusm/funny-learn-notifier/pkg/middleware"
	"github.com/artusm/funny-learn-notifier/pkg/pipeline"
	"github.com/artusm/funny-learn-notifier/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config failed")
	}
	logging.Setup(cfg.Environment)

	reg := metrics.NewRegistry()
	st := store.NewMemoryStore(reg)
	pipe := pipeline.NewService(cfg, pipeline.Deps{Store: st, Registry: reg})

	server := echo.New()
	server.HideBanner = true
	server.Use(echomw.Recover())
	server.Use(appmw.RequestLogger(reg))

	api.NewHandlers(cfg, pipe, st, reg).Register(server)

	// Scheduled activations are fire-and-forget; inFlight keeps shutdown
	// waiting until a running post settles.
	var inFlight sync.WaitGroup
	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.PostSchedule, func() {
		inFlight.Add(1)
		go func() {
			defer inFlight.Done()
			report := pipe.Run(context.Background(), pipeline.TriggerTimer)
			if !report.Success {
				log.Error().Str("error", report.Error).Msg("scheduled post failed")
			}
		}()
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.PostSchedule).Msg("invalid POST_SCHEDULE")
	}
	scheduler.Start()
	log.Info().Str("schedule", cfg.PostSchedule).Str("address", cfg.Address).Msg("starting")

	go func() {
		if err := server.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	<-scheduler.Stop().Done()
	inFlight.Wait()
}
