package store_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/eak1mov/go-libworld/internal"
	"github.com/eak1mov/go-libworld/store"
	"github.com/eak1mov/go-libworld/world"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, filePath string, model *world.LevelModel, opts ...store.WriterOption) {
	t.Helper()
	writer, err := store.NewWriter(filePath, opts...)
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
}

func TestWriterReader(t *testing.T) {
	for name, model := range internal.ModelCases() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			filePath := filepath.Join(t.TempDir(), "model.sqlite")
			writerMetadata := map[string]string{"foo": "bar", "source": name}
			writeModel(t, filePath, model, store.WithMetadata(writerMetadata))

			reader, err := store.NewReader(filePath)
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer reader.Close()

			readerMetadata, err := reader.ReadMetadata()
			if err != nil {
				t.Fatalf("ReadMetadata failed: %v", err)
			}
			if diff := cmp.Diff(writerMetadata, readerMetadata); diff != "" {
				t.Errorf("ReadMetadata mismatch (-want+got):\n%v", diff)
			}

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

func TestTilesHilbertOrder(t *testing.T) {
	model := internal.RichModel()
	filePath := filepath.Join(t.TempDir(), "model.sqlite")
	writeModel(t, filePath, model)

	db, err := sql.Open("sqlite3", filePath)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT group_id, code, x, y FROM tiles ORDER BY rowid")
	require.NoError(t, err)
	defer rows.Close()

	room := model.Rooms[0]
	lastGroup, lastCode := -1, uint64(0)
	count := 0
	for rows.Next() {
		var group int
		var code uint64
		var x, y int32
		require.NoError(t, rows.Scan(&group, &code, &x, &y))
		if group == lastGroup && code <= lastCode {
			t.Errorf("group %v: code %v after %v", group, code, lastCode)
		}
		if group < 4 {
			// The first room holds groups 0..3.
			pos := store.DecodeCell(code, room.Size)
			if pos.X != x || pos.Y != y {
				t.Errorf("DecodeCell(%v) = %v, stored (%v, %v)", code, pos, x, y)
			}
		}
		lastGroup, lastCode = group, code
		count++
	}
	require.NoError(t, rows.Err())

	want := 0
	for i := range model.Rooms {
		want += model.Rooms[i].TileCount()
	}
	require.Equal(t, want, count)
}

func TestReaderMissingFile(t *testing.T) {
	_, err := store.NewReader(filepath.Join(t.TempDir(), "missing.sqlite"))
	require.Error(t, err)
}

func TestWriterReplacesExistingFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "model.sqlite")
	writeModel(t, filePath, internal.RichModel(), store.WithMetadata(map[string]string{"run": "1"}))
	writeModel(t, filePath, internal.ScenarioModel(), store.WithMetadata(map[string]string{"run": "2"}))

	reader, err := store.NewReader(filePath)
	require.NoError(t, err)
	defer reader.Close()

	metadata, err := reader.ReadMetadata()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"run": "2"}, metadata)

	got, err := reader.ReadModel()
	require.NoError(t, err)
	if diff := cmp.Diff(internal.ScenarioModel(), got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadModel mismatch (-want+got):\n%v", diff)
	}
}

func TestFinalizeRejectsDuplicates(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "model.sqlite")
	writer, err := store.NewWriter(filePath)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.WriteModel(internal.ScenarioModel()))
	require.NoError(t, writer.WriteModel(internal.ScenarioModel()))
	require.Error(t, writer.Finalize())
}
