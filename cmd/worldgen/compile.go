package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"

	"github.com/eak1mov/go-libworld/cache"
	"github.com/eak1mov/go-libworld/compiler"
	"github.com/eak1mov/go-libworld/config"
	"github.com/eak1mov/go-libworld/world"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"
)

type compileCmd struct {
	inputPath    string
	outputPath   string
	outputFormat string
	configPath   string
	gridSize     int
	useCache     bool
	verbose      bool
}

func (c *compileCmd) Name() string     { return "compile" }
func (c *compileCmd) Synopsis() string { return "compile an editor project into a world model" }
func (c *compileCmd) Usage() string {
	return "worldgen compile -i <project.ldtk | maps/{name}@{x},{y}.tmx> -o <path> [-of <format> -grid <size> -config <path> -cache -v]\n"
}
func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input project path or TMX file pattern")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (json, flat, sqlite)")
	f.StringVar(&c.configPath, "config", "", "Configuration file")
	f.IntVar(&c.gridSize, "grid", 0, "Grid size in pixels, overrides the configuration")
	f.BoolVar(&c.useCache, "cache", false, "Reuse models compiled earlier from the same project")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *compileCmd) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.gridSize != 0 {
		cfg.GridSize = int32(c.gridSize)
	}
	if format := deduceFormat(c.outputFormat, c.outputPath); format != "" {
		cfg.Output.Format = format
	}
	if c.useCache {
		cfg.Cache.Enabled = true
	}
	return cfg, cfg.Validate()
}

// cacheKey digests the project file together with the configuration it is compiled with.
func cacheKey(projectPath string, cfg *config.Config) (string, error) {
	project, err := os.ReadFile(projectPath)
	if err != nil {
		return "", err
	}
	settings, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return cache.Key(slices.Concat(project, settings), cfg.GridSize), nil
}

func (c *compileCmd) compile(cfg *config.Config, logger *slog.Logger) (*world.LevelModel, error) {
	var modelCache *cache.Cache
	var key string
	if cfg.Cache.Enabled && !isPattern(c.inputPath) {
		var err error
		if modelCache, err = cache.Open(cfg.Cache.AppName, cache.WithLogger(logger)); err != nil {
			return nil, err
		}
		if key, err = cacheKey(c.inputPath, cfg); err != nil {
			return nil, err
		}
		model, ok, err := modelCache.Load(key)
		if err != nil {
			log.Println("ignoring cache entry:", err)
		} else if ok {
			log.Printf("using cached model %s", key)
			return model, nil
		}
	}

	bar := progressbar.NewOptions(-1, progressbar.OptionShowCount(), progressbar.OptionSetDescription("compiling"))
	model, err := compileProject(c.inputPath, cfg, logger, compiler.WithProgress(func(level string, done, total int) {
		bar.ChangeMax(total)
		bar.Describe(level)
		bar.Set(done)
	}))
	bar.Finish()
	fmt.Println()
	if err != nil {
		return nil, err
	}

	if modelCache != nil {
		if err := modelCache.Save(key, model); err != nil {
			log.Println("failed to cache model:", err)
		}
	}
	return model, nil
}

func (c *compileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.inputPath == "" || c.outputPath == "" {
		log.Println("both -i and -o are required")
		return subcommands.ExitUsageError
	}
	cfg, err := c.loadConfig()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	logger := newLogger(c.verbose)

	model, err := c.compile(&cfg, logger)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if err := writeModel(c.outputPath, cfg.Output.Format, model, cfg.Output, logger); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	log.Printf("compiled %d rooms and %d tilesets into %s", len(model.Rooms), len(model.Tilesets), c.outputPath)
	return subcommands.ExitSuccess
}
