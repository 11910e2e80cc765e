package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/cartscope/cartscope/pkg/config"
	"github.com/cartscope/cartscope/pkg/extract"
	"github.com/cartscope/cartscope/pkg/inject"
	"github.com/cartscope/cartscope/pkg/metrics"
	"github.com/cartscope/cartscope/pkg/optimize"
	"github.com/cartscope/cartscope/pkg/orchestrator"
	"github.com/cartscope/cartscope/pkg/page"
	"github.com/cartscope/cartscope/pkg/platform"
	"github.com/cartscope/cartscope/pkg/session"
	"github.com/cartscope/cartscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	log.Printf("[INFO] starting cartscope version %s", revision)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] can't load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts.Debug); err != nil {
		cancel()
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// run wires the engine together and serves until the context is cancelled.
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	m := metrics.New()
	registry := platform.NewRegistry()
	pages := page.NewRegistry()
	extractor := extract.New(m)

	injCfg := cfg.GetInjectionConfig()
	injector := inject.New(pages, injCfg.Attempts, injCfg.Delay, m)

	sessCfg := cfg.GetSessionsConfig()
	store := session.NewStore(sessCfg.MaxEntries, sessCfg.TTL)

	optCfg := cfg.GetOptimizerConfig()
	client := optimize.New(optCfg.Endpoint, optCfg.UserAgent)
	orch := orchestrator.New(store, client, optCfg.Timeout, m)

	srv := server.New(cfg, registry, pages, extractor, injector, orch, m, revision, debug)

	err := srv.Run(ctx)

	// let bounded injection loops and in-flight optimization calls settle
	injector.Wait()
	orch.Wait()
	return err
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
