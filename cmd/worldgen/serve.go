package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/eak1mov/go-libworld/config"
	"github.com/eak1mov/go-libworld/server"
	"github.com/eak1mov/go-libworld/watch"
	"github.com/eak1mov/go-libworld/world"
	"github.com/google/subcommands"
)

type serveCmd struct {
	inputFormat string
	inputPath   string
	configPath  string
	addr        string
	watch       bool
	verbose     bool
}

func (c *serveCmd) Name() string     { return "serve" }
func (c *serveCmd) Synopsis() string { return "serve spatial queries over HTTP" }
func (c *serveCmd) Usage() string {
	return "worldgen serve -i <path> [-if <format> -addr <addr> -watch -config <path> -v]\n"
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input model or project path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (json, flat, sqlite)")
	f.StringVar(&c.configPath, "config", "", "Configuration file")
	f.StringVar(&c.addr, "addr", "", "Listen address, overrides the configuration")
	f.BoolVar(&c.watch, "watch", false, "Reload when the input file changes")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Serve.Addr = c.addr
	}
	if c.watch {
		cfg.Serve.Watch = true
	}
	logger := newLogger(c.verbose)

	load := func(path string) (*world.LevelModel, error) {
		return loadAny(path, c.inputFormat, &cfg, logger)
	}

	var source server.Source
	if cfg.Serve.Watch && !isPattern(c.inputPath) {
		reloader, err := watch.NewReloader(c.inputPath, load, watch.WithLogger(logger))
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		defer reloader.Close()
		source = reloader
	} else {
		model, err := load(c.inputPath)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		source = server.Static{Model: model}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           server.NewRouter(source, server.WithLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving %s on %s", c.inputPath, cfg.Serve.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
