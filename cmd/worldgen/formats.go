package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eak1mov/go-libworld/compiler"
	"github.com/eak1mov/go-libworld/config"
	"github.com/eak1mov/go-libworld/flat"
	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/eak1mov/go-libworld/store"
	"github.com/eak1mov/go-libworld/tmx"
	"github.com/eak1mov/go-libworld/world"
)

func deduceFormat(format, filePath string) string {
	if format != "" {
		return format
	}
	switch filepath.Ext(filePath) {
	case ".json":
		return "json"
	case ".lwm":
		return "flat"
	case ".sqlite", ".db":
		return "sqlite"
	}
	return format
}

// isProject reports whether path names editor sources rather than a compiled model.
func isProject(path string) bool {
	return filepath.Ext(path) == ".ldtk" || isPattern(path)
}

func isPattern(path string) bool {
	return strings.Contains(path, "{x}")
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	slog.SetLogLoggerLevel(slog.LevelDebug)
	return slog.Default()
}

// readProject loads an .ldtk file or a TMX file pattern like "maps/{name}@{x},{y}.tmx".
func readProject(path string, logger *slog.Logger) (*ldtk.Project, error) {
	if !isPattern(path) {
		return ldtk.ReadFile(path)
	}

	dir, pattern := filepath.Split(path)
	if strings.Contains(dir, "{") {
		return nil, fmt.Errorf("%w: placeholders are only allowed in the file name", tmx.ErrInvalidPattern)
	}
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)
	levels, err := tmx.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no files match %s: %w", path, fs.ErrNotExist)
	}
	return tmx.Import(fsys, levels, tmx.WithLogger(logger))
}

func compileProject(path string, cfg *config.Config, logger *slog.Logger, opts ...compiler.Option) (*world.LevelModel, error) {
	project, err := readProject(path, logger)
	if err != nil {
		return nil, err
	}
	options, err := cfg.CompilerOptions()
	if err != nil {
		return nil, err
	}
	options = append(options, compiler.WithLogger(logger))
	return compiler.Compile(project, append(options, opts...)...)
}

func readModel(path, format string) (*world.LevelModel, error) {
	switch deduceFormat(format, path) {
	case "json", "flat":
		reader, err := flat.NewFileReader(path)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadModel()
	case "sqlite":
		reader, err := store.NewReader(path)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.ReadModel()
	}
	return nil, fmt.Errorf("invalid input format for %s: %q", path, format)
}

// loadAny compiles editor sources and reads compiled models.
func loadAny(path, format string, cfg *config.Config, logger *slog.Logger) (*world.LevelModel, error) {
	if isProject(path) {
		return compileProject(path, cfg, logger)
	}
	return readModel(path, format)
}

func writeModel(path, format string, model *world.LevelModel, out config.OutputConfig, logger *slog.Logger) (err error) {
	var writer interface {
		world.Writer
		Close() error
	}
	switch deduceFormat(format, path) {
	case "json":
		return flat.WriteJSONFile(path, model)
	case "flat":
		c, err := spec.ParseCodec(out.Codec)
		if err != nil {
			return err
		}
		compression, err := spec.ParseCompression(out.Compression)
		if err != nil {
			return err
		}
		writer, err = flat.NewWriter(path,
			flat.WithCodec(c),
			flat.WithCompression(compression),
			flat.WithCompressionLevel(out.Level),
			flat.WithLogger(logger),
		)
		if err != nil {
			return err
		}
	case "sqlite":
		writer, err = store.NewWriter(path, store.WithLogger(logger))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid output format for %s: %q", path, format)
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	if err := writer.WriteModel(model); err != nil {
		return err
	}
	return writer.Finalize()
}
