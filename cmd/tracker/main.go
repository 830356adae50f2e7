package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/woozymasta/marsconv/internal/config"
	"github.com/woozymasta/marsconv/internal/geo"
	"github.com/woozymasta/marsconv/internal/gnss"
	"github.com/woozymasta/marsconv/internal/logger"
	"github.com/woozymasta/marsconv/internal/track"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"    env:"CONFIG_FILE"   description:"Path to configuration file (YAML or JSON)"`
	GNSSURL    string        `short:"g" long:"gnss-url"  env:"GNSS_URL"      description:"GNSS service URL, overrides config"`
	Interval   time.Duration `short:"i" long:"interval"  env:"POLL_INTERVAL" description:"Polling interval, overrides config"`
	OutDir     string        `short:"o" long:"out"       env:"OUT_DIR"       description:"Directory to export the recorded track to on exit"`
	Duration   time.Duration `short:"d" long:"duration"  env:"DURATION"      description:"Stop after this long (0 runs until interrupted)"`
	Simulate   bool          `short:"s" long:"simulate"  description:"Start the GNSS simulator before tracking and stop it on exit"`
	GeoJSON    bool          `long:"geojson"             description:"Also export the track as GeoJSON"`
	Force      bool          `short:"f" long:"force"     description:"Force overwrite of existing files"`
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

	opts.Logger.Setup()

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
	if opts.Interval > 0 {
		cfg.PollInterval = opts.Interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	client := gnss.NewClient(cfg.GNSSURL, nil)

	if opts.Simulate {
		if err := client.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start GNSS simulator")
		}
		log.Info().Msg("GNSS simulator started")
	}

	var mu sync.Mutex
	recorded := track.New(geo.WGS84)
	follower := gnss.NewFollower(client, cfg.PollInterval, func(fix gnss.Fix) {
		mu.Lock()
		recorded.Add(fix.WGS)
		mu.Unlock()

		log.Info().
			Str("gcj02", track.FormatPoint(fix.GCJ)).
			Str("wgs84", track.FormatPoint(fix.WGS)).
			Msg("Vehicle position")
	})

	log.Info().
		Str("gnss_url", cfg.GNSSURL).
		Dur("interval", cfg.PollInterval).
		Msg("Starting tracker")

	follower.Run(ctx)

	// ctx is done here, use a fresh one for cleanup calls
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if opts.Simulate {
		if err := client.Stop(cleanupCtx); err != nil {
			log.Error().Err(err).Msg("Failed to stop GNSS simulator")
		} else {
			log.Info().Msg("GNSS simulator stopped")
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if opts.OutDir == "" {
		log.Info().Int("points", recorded.Len()).Msg("Tracker finished")
		return
	}
	if recorded.Len() == 0 {
		log.Warn().Msg("No positions recorded, nothing to export")
		return
	}

	exporter := track.DirExporter{Dir: opts.OutDir, GeoJSON: opts.GeoJSON, Force: opts.Force}
	if err := exporter.Export(recorded); err != nil {
		log.Fatal().Err(err).Str("dir", opts.OutDir).Msg("Failed to export track")
	}
}
