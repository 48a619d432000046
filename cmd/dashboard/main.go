package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/gymdash/internal/config"
	"github.com/2beens/gymdash/internal/dashboard/web"
	"github.com/2beens/gymdash/internal/logging"

	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting dashboard ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Dashboard.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "gymdash-dashboard",
	})

	log.Debugf("using api: %s", cfg.Dashboard.ApiURL)

	apiToken := os.Getenv("GYMDASH_API_TOKEN")
	if apiToken == "" {
		log.Warnln("api token not set, mutating requests may be rejected. use GYMDASH_API_TOKEN")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	server, err := web.NewServer(web.NewServerParams{
		ApiURL:                  cfg.Dashboard.ApiURL,
		ApiToken:                apiToken,
		RequestTimeout:          time.Duration(cfg.Dashboard.RequestTimeout) * time.Second,
		MaxUploadSizeMB:         cfg.MaxUploadSizeMB,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new dashboard server: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server.Serve(ctx, cfg.Dashboard.Host, cfg.Dashboard.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}
