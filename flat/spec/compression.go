package spec

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
)

// DefaultLevel is the gzip level of written payloads. Output is identical for
// identical input at a fixed level.
const DefaultLevel = gzip.BestCompression

var ErrUnsupportedCompression = errors.New("libworld: unsupported compression")

// ValidateLevel reports whether level is a valid gzip level.
func ValidateLevel(level int) error {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return fmt.Errorf("%w: gzip level %d outside [%d, %d]",
			ErrUnsupportedCompression, level, gzip.HuffmanOnly, gzip.BestCompression)
	}
	return nil
}

// Compress encodes a payload. level only applies to CompressionGzip.
func Compress(payload []byte, compression Compression, level int) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil
	case CompressionGzip:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCompression, compression)
	}
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer, err := gzip.NewWriterLevel(&buffer, level)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(payload); err != nil {
		return nil, fmt.Errorf("libworld: gzip payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("libworld: gzip payload: %w", err)
	}
	return buffer.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(payload []byte, compression Compression) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return payload, nil
	case CompressionGzip:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCompression, compression)
	}

	reader, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("libworld: gunzip payload: %w", err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("libworld: gunzip payload: %w", err)
	}
	return data, nil
}
