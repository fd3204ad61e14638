package compiler

import (
	"log/slog"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/layer"
	"github.com/eak1mov/go-libworld/ldtk"
)

// DefaultGridSize is used when neither an option nor the project sets one.
const DefaultGridSize = 16

type compileOptions struct {
	gridSize   int32
	classifier *layer.Classifier
	tilted     []string
	idFunc     func(*ldtk.TilesetDefinition) string
	spawn      grid.Pos
	logger     *slog.Logger
	progress   func(level string, done, total int)
}

type Option func(*compileOptions)

// WithGridSize sets the number of pixels per grid cell.
func WithGridSize(gridSize int32) Option {
	return func(o *compileOptions) {
		o.gridSize = gridSize
	}
}

func WithClassifier(classifier *layer.Classifier) Option {
	return func(o *compileOptions) {
		o.classifier = classifier
	}
}

// WithTilted lists tileset identifiers compiled as tilted even without the tag.
func WithTilted(identifiers ...string) Option {
	return func(o *compileOptions) {
		o.tilted = append(o.tilted, identifiers...)
	}
}

func WithTilesetIDFunc(idFunc func(*ldtk.TilesetDefinition) string) Option {
	return func(o *compileOptions) {
		o.idFunc = idFunc
	}
}

// WithSpawnPoint sets the spawn point used when no level has a spawn marker.
func WithSpawnPoint(pos grid.Pos) Option {
	return func(o *compileOptions) {
		o.spawn = pos
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *compileOptions) {
		o.logger = logger
	}
}

// WithProgress registers a callback invoked after each level is compiled.
func WithProgress(progress func(level string, done, total int)) Option {
	return func(o *compileOptions) {
		o.progress = progress
	}
}
