package flat_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-libworld/flat"
	"github.com/eak1mov/go-libworld/flat/spec"
	"github.com/eak1mov/go-libworld/internal"
	"github.com/eak1mov/go-libworld/world"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	for name, model := range internal.ModelCases() {
		for _, c := range []spec.Codec{spec.CodecJSON, spec.CodecMsgpack} {
			for _, compression := range []spec.Compression{spec.CompressionNone, spec.CompressionGzip} {
				t.Run(name+"/"+c.String()+"/"+compression.String(), func(t *testing.T) {
					t.Parallel()

					filePath := filepath.Join(t.TempDir(), "model.lwm")
					writer, err := flat.NewWriter(filePath, flat.WithCodec(c), flat.WithCompression(compression))
					if err != nil {
						t.Fatalf("NewWriter failed: %v", err)
					}
					defer writer.Close()

					if err := writer.WriteModel(model); err != nil {
						t.Fatalf("WriteModel failed: %v", err)
					}
					if err := writer.Finalize(); err != nil {
						t.Fatalf("Finalize failed: %v", err)
					}

					reader, err := flat.NewFileReader(filePath)
					if err != nil {
						t.Fatalf("NewFileReader failed: %v", err)
					}
					defer reader.Close()

					got, err := reader.ReadModel()
					if err != nil {
						t.Fatalf("ReadModel failed: %v", err)
					}
					if diff := cmp.Diff(model, got, cmpopts.EquateEmpty()); diff != "" {
						t.Errorf("ReadModel mismatch (-want+got):\n%v", diff)
					}
				})
			}
		}
	}
}

func TestWriterCompressionLevel(t *testing.T) {
	dir := t.TempDir()
	sizes := make(map[int]int64)
	for _, level := range []int{gzip.NoCompression, gzip.BestCompression} {
		filePath := filepath.Join(dir, "model.lwm")
		writer, err := flat.NewWriter(filePath, flat.WithCompressionLevel(level))
		require.NoError(t, err)
		require.NoError(t, writer.WriteModel(internal.RichModel()))
		require.NoError(t, writer.Finalize())
		require.NoError(t, writer.Close())

		info, err := os.Stat(filePath)
		require.NoError(t, err)
		sizes[level] = info.Size()

		reader, err := flat.NewFileReader(filePath)
		require.NoError(t, err)
		got, err := reader.ReadModel()
		require.NoError(t, err)
		if diff := cmp.Diff(internal.RichModel(), got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("level %d: ReadModel mismatch (-want+got):\n%v", level, diff)
		}
	}
	require.Less(t, sizes[gzip.BestCompression], sizes[gzip.NoCompression])

	_, err := flat.NewWriter(filepath.Join(dir, "bad.lwm"), flat.WithCompressionLevel(11))
	require.ErrorIs(t, err, spec.ErrUnsupportedCompression)
}

func TestJSONRoundTrip(t *testing.T) {
	for name, model := range internal.ModelCases() {
		t.Run(name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := flat.WriteJSON(&buffer, model); err != nil {
				t.Fatalf("WriteJSON failed: %v", err)
			}
			got, err := flat.ReadJSON(bytes.NewReader(buffer.Bytes()))
			if err != nil {
				t.Fatalf("ReadJSON failed: %v", err)
			}
			if diff := cmp.Diff(model, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ReadJSON mismatch (-want+got):\n%v", diff)
			}

			decoded, err := flat.Decode(buffer.Bytes())
			require.NoError(t, err)
			if diff := cmp.Diff(model, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Decode mismatch (-want+got):\n%v", diff)
			}
		})
	}
}

func TestJSONFileRoundTrip(t *testing.T) {
	model := internal.RichModel()
	filePath := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, flat.WriteJSONFile(filePath, model))

	reader, err := flat.NewFileReader(filePath)
	require.NoError(t, err)
	defer reader.Close()
	got, err := reader.ReadModel()
	require.NoError(t, err)
	if diff := cmp.Diff(model, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadModel mismatch (-want+got):\n%v", diff)
	}
}

func TestJSONFieldNames(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, flat.WriteJSON(&buffer, internal.ScenarioModel()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &doc))
	require.Contains(t, doc, "spawn_point")
	require.Contains(t, doc, "rooms")
	require.Contains(t, doc, "tilesets")

	room := doc["rooms"].([]any)[0].(map[string]any)
	for _, key := range []string{"display_name", "world_pos", "size", "walls", "floors", "roofs", "lights"} {
		require.Contains(t, room, key)
	}
	floor := room["floors"].([]any)[0].(map[string]any)
	require.Equal(t, "floor", floor["tileset_id"])
	require.Equal(t, map[string]any{"1": map[string]any{"1": float64(5)}}, floor["tiles"])

	tileset := doc["tilesets"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "source_image_path", "tiles", "is_tilted"} {
		require.Contains(t, tileset, key)
	}
	rect := tileset["tiles"].(map[string]any)["1"].(map[string]any)
	require.Contains(t, rect, "origin")
	require.Contains(t, rect, "size")
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := flat.Encode(internal.RichModel(), spec.CodecMsgpack, spec.CompressionNone)
	require.NoError(t, err)
	b, err := flat.Encode(internal.RichModel(), spec.CodecMsgpack, spec.CompressionNone)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDecodeErrors(t *testing.T) {
	data, err := flat.Encode(internal.ScenarioModel(), spec.CodecMsgpack, spec.CompressionGzip)
	require.NoError(t, err)

	corrupt := bytes.Clone(data)
	corrupt[len(corrupt)-1] ^= 0xFF
	_, err = flat.Decode(corrupt)
	require.ErrorIs(t, err, flat.ErrCorruptPayload)

	_, err = flat.Decode(data[:len(data)-1])
	require.ErrorIs(t, err, flat.ErrCorruptPayload)

	_, err = flat.Decode([]byte("garbage"))
	require.ErrorIs(t, err, spec.ErrInvalidHeader)

	_, err = flat.Decode(nil)
	require.ErrorIs(t, err, spec.ErrInvalidHeader)

	badVersion := bytes.Clone(data)
	badVersion[4] = 7
	_, err = flat.Decode(badVersion)
	require.ErrorIs(t, err, spec.ErrInvalidVersion)

	_, err = flat.ReadJSON(bytes.NewReader([]byte(`{"rooms": 5}`)))
	require.Error(t, err)
}

func TestDecodeInvalidModel(t *testing.T) {
	model := internal.ScenarioModel()
	model.Tilesets = nil
	data, err := flat.Encode(model, spec.CodecJSON, spec.CompressionNone)
	require.NoError(t, err)

	_, err = flat.Decode(data)
	require.ErrorIs(t, err, world.ErrInvalidModel)
}

func TestNewFileReaderMissing(t *testing.T) {
	_, err := flat.NewFileReader(filepath.Join(t.TempDir(), "missing.lwm"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func BenchmarkDecode(b *testing.B) {
	for _, c := range []spec.Codec{spec.CodecJSON, spec.CodecMsgpack} {
		data, err := flat.Encode(internal.RichModel(), c, spec.CompressionGzip)
		if err != nil {
			b.Fatalf("Encode failed: %v", err)
		}
		b.Run(c.String(), func(b *testing.B) {
			for b.Loop() {
				if _, err := flat.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
