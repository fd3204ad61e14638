// Package store provides a sqlite-backed world.LevelModel store.
//
// Tiles are stored one row per cell, each group's rows inserted in Hilbert
// order of the room-relative cell so that spatially close tiles share pages.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/world"
)

// Reader implements world.Reader interface for the sqlite store.
type Reader struct {
	db *sql.DB
}

var _ world.Reader = (*Reader)(nil)

// NewReader opens the store file read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// queryRows runs query and calls scan for every row.
func (r *Reader) queryRows(query string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

type groupRef struct {
	room    int
	kind    world.TileType
	ordinal int
}

func (r *Reader) ReadModel() (*world.LevelModel, error) {
	model := &world.LevelModel{}

	err := r.db.QueryRow("SELECT x, y FROM spawn").Scan(&model.SpawnPoint.X, &model.SpawnPoint.Y)
	if err != nil {
		return nil, fmt.Errorf("libworld: read spawn point: %w", err)
	}

	tilesets := make(map[string]int)
	err = r.queryRows("SELECT id, source_image_path, is_tilted FROM tilesets ORDER BY ordinal", func(rows *sql.Rows) error {
		ts := world.Tileset{Tiles: make(map[uint16]world.Rect)}
		if err := rows.Scan(&ts.ID, &ts.SourceImagePath, &ts.IsTilted); err != nil {
			return err
		}
		tilesets[ts.ID] = len(model.Tilesets)
		model.Tilesets = append(model.Tilesets, ts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.queryRows("SELECT tileset_id, tile_index, origin_x, origin_y, width, height FROM tileset_tiles", func(rows *sql.Rows) error {
		var id string
		var index uint16
		var rect world.Rect
		if err := rows.Scan(&id, &index, &rect.Origin.X, &rect.Origin.Y, &rect.Size.W, &rect.Size.H); err != nil {
			return err
		}
		i, ok := tilesets[id]
		if !ok {
			return fmt.Errorf("%w: tile of unknown tileset %q", world.ErrInvalidModel, id)
		}
		model.Tilesets[i].Tiles[index] = rect
		return nil
	})
	if err != nil {
		return nil, err
	}

	rooms := make(map[int]int)
	err = r.queryRows("SELECT id, display_name, world_x, world_y, width, height FROM rooms ORDER BY id", func(rows *sql.Rows) error {
		var id int
		var room world.Room
		if err := rows.Scan(&id, &room.DisplayName, &room.WorldPos.X, &room.WorldPos.Y, &room.Size.W, &room.Size.H); err != nil {
			return err
		}
		rooms[id] = len(model.Rooms)
		model.Rooms = append(model.Rooms, room)
		return nil
	})
	if err != nil {
		return nil, err
	}

	groups := make(map[int]groupRef)
	err = r.queryRows("SELECT id, room, kind, tileset_id FROM tile_groups ORDER BY room, kind, ordinal", func(rows *sql.Rows) error {
		var id, roomID int
		var kind world.TileType
		var tilesetID string
		if err := rows.Scan(&id, &roomID, &kind, &tilesetID); err != nil {
			return err
		}
		i, ok := rooms[roomID]
		if !ok {
			return fmt.Errorf("%w: group %d of unknown room %d", world.ErrInvalidModel, id, roomID)
		}
		bucket, err := bucketOf(&model.Rooms[i], kind)
		if err != nil {
			return err
		}
		groups[id] = groupRef{room: i, kind: kind, ordinal: len(*bucket)}
		*bucket = append(*bucket, world.NewTileGroup(tilesetID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.queryRows("SELECT group_id, x, y, tile_index FROM tiles ORDER BY group_id, code", func(rows *sql.Rows) error {
		var id int
		var pos grid.Pos
		var index uint16
		if err := rows.Scan(&id, &pos.X, &pos.Y, &index); err != nil {
			return err
		}
		ref, ok := groups[id]
		if !ok {
			return fmt.Errorf("%w: tile of unknown group %d", world.ErrInvalidModel, id)
		}
		bucket, _ := bucketOf(&model.Rooms[ref.room], ref.kind)
		(*bucket)[ref.ordinal].Set(pos.X, pos.Y, index)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.queryRows("SELECT room, x, y, height, r, g, b, a FROM lights ORDER BY room, ordinal", func(rows *sql.Rows) error {
		var roomID int
		var light world.Light
		if err := rows.Scan(&roomID, &light.Pos.X, &light.Pos.Y, &light.Pos.Height,
			&light.Color[0], &light.Color[1], &light.Color[2], &light.Color[3]); err != nil {
			return err
		}
		i, ok := rooms[roomID]
		if !ok {
			return fmt.Errorf("%w: light of unknown room %d", world.ErrInvalidModel, roomID)
		}
		model.Rooms[i].Lights = append(model.Rooms[i].Lights, light)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

func bucketOf(room *world.Room, kind world.TileType) (*[]world.TileGroup, error) {
	switch kind {
	case world.TileFloor:
		return &room.Floors, nil
	case world.TileWall:
		return &room.Walls, nil
	case world.TileRoof:
		return &room.Roofs, nil
	}
	return nil, fmt.Errorf("%w: unknown group kind %d", world.ErrInvalidModel, kind)
}
