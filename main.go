package main

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"arm-planner/planner"
)

const (
	flagAddr      = "addr"
	flagInterval  = "interval"
	flagWorkers   = "workers"
	flagObstacles = "obstacles"
	flagDebug     = "debug"
)

// Config holds the command line settings.
type Config struct {
	Addr          string
	Interval      time.Duration
	Workers       int
	ObstaclesFile string
	Debug         bool
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var err error
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("listen address must not be empty"))
	}
	if c.Interval <= 0 {
		err = multierr.Append(err, errors.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return err
}

func configFromContext(c *cli.Context) Config {
	return Config{
		Addr:          c.String(flagAddr),
		Interval:      c.Duration(flagInterval),
		Workers:       c.Int(flagWorkers),
		ObstaclesFile: c.String(flagObstacles),
		Debug:         c.Bool(flagDebug),
	}
}

// newLogger returns a console logger; debug lowers the level to Debug.
func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().Named("arm-planner"), nil
}

func serve(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return errors.Wrap(err, "failed to build logger")
	}
	defer logger.Sync()

	logger.Info("Two-link arm planner server (configuration space flood fill)")

	scene := NewScene()
	if cfg.ObstaclesFile != "" {
		obstacles, err := planner.LoadObstaclesFromFile(cfg.ObstaclesFile, 0, logger)
		if err != nil {
			return err
		}
		scene.AddObstacles(obstacles)
	} else {
		logger.Info("no obstacle file given, starting with an empty scene")
	}

	server := NewServer(scene, planner.NewPlanner(logger, cfg.Workers), logger, nil, cfg.Interval)

	logger.Infof("server starting on %s", cfg.Addr)
	logger.Info("endpoints:")
	logger.Info("  POST /arm                    - define arm from base, joint and end placements")
	logger.Info("  POST /arm/reach              - move the end effector")
	logger.Info("  GET|POST /obstacles          - list or add obstacles")
	logger.Info("  GET|POST /obstacles/geojson  - export or import obstacles as GeoJSON")
	logger.Info("  POST /plan                   - plan a path to a destination")
	logger.Info("  GET  /pose?elapsed=ms        - sample the planned motion")
	logger.Info("  GET  /playback               - stream the planned motion (websocket)")
	logger.Info("  GET  /configurationSpace.png - configuration space image")
	logger.Info("  GET  /health                 - check server status")

	return http.ListenAndServe(cfg.Addr, server.Handler())
}

func main() {
	app := &cli.App{
		Name:  "arm-planner",
		Usage: "plan collision-free motion for a two-link planar arm",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagAddr,
				Value: ":8080",
				Usage: "address to listen on",
			},
			&cli.DurationFlag{
				Name:  flagInterval,
				Value: planner.DefaultSampleInterval,
				Usage: "time each configuration is shown during playback",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Value: runtime.GOMAXPROCS(0),
				Usage: "parallel rows when sweeping the configuration space",
			},
			&cli.StringFlag{
				Name:  flagObstacles,
				Usage: "GeoJSON FeatureCollection of obstacles to load at startup",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Action: func(c *cli.Context) error {
			return serve(configFromContext(c))
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
