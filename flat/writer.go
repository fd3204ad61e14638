package flat

import (
	"log/slog"
	"os"

	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/world"
)

type writerOptions struct {
	codec       spec.Codec
	compression spec.Compression
	level       int
	logger      *slog.Logger
}

type WriterOption func(*writerOptions)

func WithCodec(c spec.Codec) WriterOption {
	return func(o *writerOptions) {
		o.codec = c
	}
}

func WithCompression(compression spec.Compression) WriterOption {
	return func(o *writerOptions) {
		o.compression = compression
	}
}

// WithCompressionLevel sets the gzip level, see compress/gzip.
func WithCompressionLevel(level int) WriterOption {
	return func(o *writerOptions) {
		o.level = level
	}
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(o *writerOptions) {
		o.logger = logger
	}
}

// Writer writes the container form. The default is a gzipped msgpack payload.
type Writer struct {
	options writerOptions
	file    *os.File
	data    []byte
}

var _ world.Writer = (*Writer)(nil)

func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	options := writerOptions{
		codec:       spec.CodecMsgpack,
		compression: spec.CompressionGzip,
		level:       spec.DefaultLevel,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if err := spec.ValidateLevel(options.level); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	return &Writer{options: options, file: file}, nil
}

func (w *Writer) WriteModel(model *world.LevelModel) error {
	if w.data != nil {
		panic("libworld: model already written")
	}
	data, err := encode(model, w.options.codec, w.options.compression, w.options.level)
	if err != nil {
		return err
	}
	w.options.logger.Debug("libworld: model encoded",
		"codec", w.options.codec, "compression", w.options.compression, "level", w.options.level, "bytes", len(data))
	w.data = data
	return nil
}

func (w *Writer) Finalize() error {
	if w.file == nil {
		panic("libworld: finalize called twice")
	}
	if _, err := w.file.Write(w.data); err != nil {
		return err
	}
	w.options.logger.Debug("libworld: flush")
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil
	return nil
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
