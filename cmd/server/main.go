package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/marsconv/internal/config"
	"github.com/woozymasta/marsconv/internal/gnss"
	"github.com/woozymasta/marsconv/internal/logger"
	"github.com/woozymasta/marsconv/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file (YAML or JSON)"`
	GNSSURL    string `short:"g" long:"gnss-url" env:"GNSS_URL"       description:"GNSS service URL, overrides config"`
	Addr       string `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"      default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"         default:"8080"`
	NoGNSS     bool   `long:"no-gnss"            env:"NO_GNSS"        description:"Disable GNSS service endpoints"`
	Follow     bool   `short:"f" long:"follow"   env:"FOLLOW"         description:"Track the vehicle position in the background"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if opts.GNSSURL != "" {
		cfg.GNSSURL = opts.GNSSURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		client   *gnss.Client
		follower *gnss.Follower
	)
	if !opts.NoGNSS {
		client = gnss.NewClient(cfg.GNSSURL, nil)
		if opts.Follow {
			follower = gnss.NewFollower(client, cfg.PollInterval, nil)
			go follower.Run(ctx)
		}
	}

	srvCtx := server.NewServerContext(cfg, client, follower)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Str("gnss_url", cfg.GNSSURL).
		Bool("follow", follower != nil).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Web server stopped")
}
