package store

import (
	"cmp"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/world"
)

const schema = `
	CREATE TABLE metadata (name TEXT, value TEXT);
	CREATE TABLE spawn (x INTEGER, y INTEGER);
	CREATE TABLE tilesets (
		id TEXT,
		ordinal INTEGER,
		source_image_path TEXT,
		is_tilted INTEGER
	);
	CREATE TABLE tileset_tiles (
		tileset_id TEXT,
		tile_index INTEGER,
		origin_x INTEGER,
		origin_y INTEGER,
		width INTEGER,
		height INTEGER
	);
	CREATE TABLE rooms (
		id INTEGER,
		display_name TEXT,
		world_x INTEGER,
		world_y INTEGER,
		width INTEGER,
		height INTEGER
	);
	CREATE TABLE tile_groups (
		id INTEGER,
		room INTEGER,
		kind INTEGER,
		ordinal INTEGER,
		tileset_id TEXT
	);
	CREATE TABLE tiles (
		group_id INTEGER,
		code INTEGER,
		x INTEGER,
		y INTEGER,
		tile_index INTEGER
	);
	CREATE TABLE lights (
		room INTEGER,
		ordinal INTEGER,
		x INTEGER,
		y INTEGER,
		height INTEGER,
		r INTEGER,
		g INTEGER,
		b INTEGER,
		a INTEGER
	);
`

// Writer implements world.Writer interface for the sqlite store.
type Writer struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ world.Writer = (*Writer)(nil)

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new store file and initializes its schema. An existing
// file at filePath is replaced.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	return &Writer{db: db, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

type tileRow struct {
	code  uint64
	pos   grid.Pos
	index uint16
}

// WriteModel stores the whole model in a single transaction.
func (w *Writer) WriteModel(model *world.LevelModel) (err error) {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err = tx.Exec("INSERT INTO spawn (x, y) VALUES (?, ?)", model.SpawnPoint.X, model.SpawnPoint.Y); err != nil {
		return err
	}

	for i, ts := range model.Tilesets {
		_, err = tx.Exec("INSERT INTO tilesets (id, ordinal, source_image_path, is_tilted) VALUES (?, ?, ?, ?)",
			ts.ID, i, ts.SourceImagePath, ts.IsTilted)
		if err != nil {
			return err
		}
		for _, index := range slices.Sorted(maps.Keys(ts.Tiles)) {
			rect := ts.Tiles[index]
			_, err = tx.Exec("INSERT INTO tileset_tiles (tileset_id, tile_index, origin_x, origin_y, width, height) VALUES (?, ?, ?, ?, ?, ?)",
				ts.ID, index, rect.Origin.X, rect.Origin.Y, rect.Size.W, rect.Size.H)
			if err != nil {
				return err
			}
		}
	}

	groupID := 0
	for roomID := range model.Rooms {
		room := &model.Rooms[roomID]
		_, err = tx.Exec("INSERT INTO rooms (id, display_name, world_x, world_y, width, height) VALUES (?, ?, ?, ?, ?, ?)",
			roomID, room.DisplayName, room.WorldPos.X, room.WorldPos.Y, room.Size.W, room.Size.H)
		if err != nil {
			return err
		}

		ordinals := make(map[world.TileType]int)
		for gk := range world.IterGroups(room) {
			_, err = tx.Exec("INSERT INTO tile_groups (id, room, kind, ordinal, tileset_id) VALUES (?, ?, ?, ?, ?)",
				groupID, roomID, gk.Type, ordinals[gk.Type], gk.Group.TilesetID)
			if err != nil {
				return err
			}
			ordinals[gk.Type]++

			var rows []tileRow
			for pos, index := range world.IterTiles(gk.Group) {
				rows = append(rows, tileRow{code: EncodeCell(pos, room.Size), pos: pos, index: index})
			}
			slices.SortFunc(rows, func(a, b tileRow) int {
				return cmp.Compare(a.code, b.code)
			})
			for _, row := range rows {
				_, err = tx.Exec("INSERT INTO tiles (group_id, code, x, y, tile_index) VALUES (?, ?, ?, ?, ?)",
					groupID, row.code, row.pos.X, row.pos.Y, row.index)
				if err != nil {
					return err
				}
			}
			groupID++
		}

		for i, light := range room.Lights {
			_, err = tx.Exec("INSERT INTO lights (room, ordinal, x, y, height, r, g, b, a) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
				roomID, i, light.Pos.X, light.Pos.Y, light.Pos.Height,
				light.Color[0], light.Color[1], light.Color[2], light.Color[3])
			if err != nil {
				return err
			}
		}
		w.logger.Debug("libworld: room stored", "room", room.DisplayName, "tiles", room.TileCount())
	}

	return tx.Commit()
}

func (w *Writer) Finalize() error {
	w.logger.Debug("libworld: creating index")
	_, err := w.db.Exec(`
		CREATE UNIQUE INDEX tile_index ON tiles (group_id, x, y);
		CREATE INDEX tile_code ON tiles (group_id, code);
	`)

	w.logger.Debug("libworld: done!")
	return err
}
