package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"reflect"
	"runtime"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/chazu/detnav/pkg/axis"
	"github.com/chazu/detnav/pkg/detector"
	"github.com/chazu/detnav/pkg/finder"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

// The detnav version number. Set at build.
var version = "v0.1.0"

// Keeps the config field names readable by the cli package under garble.
var _ = reflect.TypeOf(config{})

type config struct {
	Script      string  `cli:""        env:"DETNAV_SCRIPT"       help:"The detector description script."`
	Strategy    string  `cli:""        env:"DETNAV_STRATEGY"     help:"Root volume finder strategy (indexed|tryall|rtree)."`
	Cast        string  `cli:""        env:"DETNAV_CAST"         help:"Comma separated cast directions of the grid, for example z,r,phi."`
	Bins        int     `cli:""        env:"DETNAV_BINS"         help:"Bins per grid axis. Zero uses one bin per root volume."`
	MinWidth    float64 `cli:",hidden" env:"DETNAV_MIN_WIDTH"    help:"Minimum width of an auto-range grid axis."`
	Workers     int     `cli:""        env:"DETNAV_WORKERS"      help:"Concurrent lookups."`
	BatchSize   int     `cli:",hidden" env:"DETNAV_BATCH_SIZE"   help:"Queries read before a batch is resolved and written."`
	MetricsAddr string  `cli:""        env:"DETNAV_METRICS_ADDR" help:"Listening address for Prometheus metrics. Empty disables it."`
	LogLevel    string  `cli:""        env:"DETNAV_LOG_LEVEL"    help:"Log level (debug|info|warning|error)."`
	LogIndent   bool    `cli:""        env:"DETNAV_LOG_INDENT"   help:"Indent logs."`
	Version     bool    `cli:""        env:"-"                   help:"Show version."`
	Help        bool    `cli:""        env:"-"                   help:"Show help."`
}

func main() {
	conf := config{
		Strategy:  string(detector.StrategyIndexed),
		Cast:      "z,r,phi",
		Workers:   runtime.NumCPU(),
		BatchSize: 1024,
		LogLevel:  logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Resolves the root volume of positions read from stdin, one \"x y z [dx dy dz]\" per line.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	d, err := loadDetector(conf)
	if err != nil {
		logs.Fatal(err)
	}

	if conf.MetricsAddr != "" {
		srv := serveMetrics(conf.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logs.Warn(errors.New("metrics server shutdown failed").Wrap(err))
			}
		}()
	}

	logs.WithTag("version", version).
		WithTag("script", conf.Script).
		WithTag("strategy", conf.Strategy).
		WithTag("cast", conf.Cast).
		WithTag("volumes", len(d.Volumes)).
		Info("resolving queries")

	start := time.Now()
	n, err := process(ctx, d.Finder, os.Stdin, os.Stdout, conf.BatchSize, conf.Workers)
	if err != nil && err != context.Canceled {
		logs.Fatal(errors.New("processing queries failed").Wrap(err))
	}
	logs.WithTag("queries", n).
		WithTag("duration", time.Since(start)).
		Info("done")
}

func loadDetector(conf config) (*detector.Detector, error) {
	source, err := os.ReadFile(conf.Script)
	if err != nil {
		return nil, errors.New("error reading detector script").
			WithTag("file_name", conf.Script).
			Wrap(err)
	}

	cast, err := axis.ParseCast(conf.Cast)
	if err != nil {
		return nil, err
	}

	var opts []finder.Option
	if conf.Bins > 0 {
		opts = append(opts, finder.WithDefaultBins(conf.Bins))
	}
	if conf.MinWidth > 0 {
		opts = append(opts, finder.WithMinWidth(conf.MinWidth))
	}
	opts = append(opts, finder.WithName(conf.Script))

	b, err := detector.NewBuilder(detector.Strategy(conf.Strategy), cast, opts...)
	if err != nil {
		return nil, err
	}

	var loaderOpts []detector.LoaderOption
	if conf.MetricsAddr != "" {
		loaderOpts = append(loaderOpts, detector.WithMetrics(conf.Strategy))
	}
	return detector.NewLoader(b, loaderOpts...).Load(string(source))
}

func serveMetrics(addr string) *http.Server {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: &admin}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Warn(errors.New("metrics server failed").
				WithTag("addr", addr).
				Wrap(err))
		}
	}()
	return srv
}

func validateConfig(conf config) error {
	if conf.Script == "" {
		return errors.New("a detector script is required")
	}
	if conf.Workers < 0 {
		return errors.New("workers cannot be negative").WithTag("workers", conf.Workers)
	}
	if conf.Bins < 0 {
		return errors.New("bins cannot be negative").WithTag("bins", conf.Bins)
	}
	return nil
}
