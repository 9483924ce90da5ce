// cmd/ednad/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edna/internal/config"
	"edna/internal/matcher"
	"edna/internal/server"
	"edna/internal/version"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config file")
		listen     = flag.String("listen", "", "listen address override")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	var client matcher.Client
	if cfg.Matcher.URL != "" {
		mc := matcher.DefaultHTTPConfig(cfg.Matcher.URL)
		mc.Database = cfg.Matcher.Database
		mc.Timeout = cfg.MatcherTimeout()
		mc.RequestsPerSecond = cfg.Matcher.RequestsPerSecond
		client = matcher.NewHTTP(mc)
		log.Printf("matcher: %s (db %s)", cfg.Matcher.URL, cfg.Matcher.Database)
	} else {
		log.Printf("matcher: none configured; taxonomy assignment disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(cfg, client).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("ednad %s listening on %s", version.Version, cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
