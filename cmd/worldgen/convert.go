package main

import (
	"context"
	"flag"
	"log"

	"github.com/eak1mov/go-libworld/config"
	"github.com/google/subcommands"
)

type convertCmd struct {
	inputFormat  string
	inputPath    string
	outputFormat string
	outputPath   string
	codec        string
	compression  string
	level        int
	verbose      bool
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "convert between model storage formats" }
func (c *convertCmd) Usage() string {
	return "worldgen convert -i <path> -o <path> [-if <format> | -of <format>]\n"
}
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	defaults := config.Default().Output
	f.StringVar(&c.inputPath, "i", "", "Input path")
	f.StringVar(&c.inputFormat, "if", "", "Input format (json, flat, sqlite)")
	f.StringVar(&c.outputPath, "o", "", "Output path")
	f.StringVar(&c.outputFormat, "of", "", "Output format (json, flat, sqlite)")
	f.StringVar(&c.codec, "codec", defaults.Codec, "Flat payload codec (json, msgpack)")
	f.StringVar(&c.compression, "compression", defaults.Compression, "Flat payload compression (none, gzip)")
	f.IntVar(&c.level, "level", defaults.Level, "Flat payload gzip level")
	f.BoolVar(&c.verbose, "v", false, "Verbose logging")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	model, err := readModel(c.inputPath, c.inputFormat)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	out := config.OutputConfig{Codec: c.codec, Compression: c.compression, Level: c.level}
	if err := writeModel(c.outputPath, c.outputFormat, model, out, newLogger(c.verbose)); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
