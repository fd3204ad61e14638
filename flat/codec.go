// Package flat stores a world.LevelModel as a single file.
//
// Two forms exist: plain JSON, the interchange form with the field names of
// the model, and a container made of a fixed binary header (see
// flat/spec) followed by a JSON or msgpack payload, optionally gzipped.
package flat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/world"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

var ErrCorruptPayload = errors.New("libworld: corrupt payload")

func msgpackHandle() *codec.MsgpackHandle {
	handle := &codec.MsgpackHandle{}
	handle.Canonical = true
	handle.WriteExt = true
	return handle
}

// WriteJSON writes the plain JSON form of model.
func WriteJSON(w io.Writer, model *world.LevelModel) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(model)
}

// ReadJSON reads the plain JSON form and validates the result.
func ReadJSON(r io.Reader) (*world.LevelModel, error) {
	var model world.LevelModel
	if err := json.NewDecoder(r).Decode(&model); err != nil {
		return nil, fmt.Errorf("libworld: decode json model: %w", err)
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

func encodePayload(model *world.LevelModel, c spec.Codec) ([]byte, error) {
	var buffer bytes.Buffer
	switch c {
	case spec.CodecJSON:
		if err := json.NewEncoder(&buffer).Encode(model); err != nil {
			return nil, err
		}
	case spec.CodecMsgpack:
		if err := codec.NewEncoder(&buffer, msgpackHandle()).Encode(model); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("libworld: codec not supported (%v)", c)
	}
	return buffer.Bytes(), nil
}

func decodePayload(data []byte, c spec.Codec) (*world.LevelModel, error) {
	var model world.LevelModel
	switch c {
	case spec.CodecJSON:
		if err := json.Unmarshal(data, &model); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
		}
	case spec.CodecMsgpack:
		if err := codec.NewDecoderBytes(data, msgpackHandle()).Decode(&model); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
		}
	default:
		return nil, fmt.Errorf("libworld: codec not supported (%v)", c)
	}
	return &model, nil
}

// Encode returns the container form of model, gzipped at spec.DefaultLevel.
func Encode(model *world.LevelModel, c spec.Codec, compression spec.Compression) ([]byte, error) {
	return encode(model, c, compression, spec.DefaultLevel)
}

func encode(model *world.LevelModel, c spec.Codec, compression spec.Compression, level int) ([]byte, error) {
	payload, err := encodePayload(model, c)
	if err != nil {
		return nil, err
	}
	payload, err = spec.Compress(payload, compression, level)
	if err != nil {
		return nil, err
	}
	header := spec.Header{
		Magic:         spec.HeaderMagic,
		Version:       spec.HeaderVersion,
		Codec:         c,
		Compression:   compression,
		PayloadLength: uint64(len(payload)),
		PayloadCRC:    crc32.ChecksumIEEE(payload),
	}
	return append(spec.SerializeHeader(&header), payload...), nil
}

// Decode accepts either form and validates the result.
func Decode(data []byte) (*world.LevelModel, error) {
	if !spec.HasMagic(data) {
		if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, spec.ErrInvalidHeader
		}
		return ReadJSON(bytes.NewReader(data))
	}

	header, err := spec.DeserializeHeader(data)
	if err != nil {
		return nil, err
	}
	payload := data[spec.HeaderLength:]
	if uint64(len(payload)) != header.PayloadLength {
		return nil, fmt.Errorf("%w: payload length %d, want %d", ErrCorruptPayload, len(payload), header.PayloadLength)
	}
	if crc := crc32.ChecksumIEEE(payload); crc != header.PayloadCRC {
		return nil, fmt.Errorf("%w: checksum %08x, want %08x", ErrCorruptPayload, crc, header.PayloadCRC)
	}
	payload, err = spec.Decompress(payload, header.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptPayload, err)
	}
	model, err := decodePayload(payload, header.Codec)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}
