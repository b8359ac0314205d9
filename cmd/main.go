package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	glog "github.com/labstack/gommon/log"

	"storyboard/pkg/config"
	"storyboard/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer done()

	if os.Getenv("DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}
	rt, err := cfg.Build(ctx)
	if err != nil {
		log.Fatal("failed to build pipeline", "error", err)
	}
	log.Info("pipeline ready",
		"provider", cfg.Provider,
		"coref", cfg.CorefModel,
		"translate", cfg.Translate,
		"languages", cfg.SourceLanguages,
	)

	srv := server.NewServer(ctx, rt.Pipeline, rt.Framer, rt.CacheTTL)
	srv.Resolution = rt.Resolution
	srv.Echo.Logger.SetLevel(glog.DEBUG)

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
		close(finishedShutDown)
	}()

	if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
		done()
	}
	<-finishedShutDown
}
