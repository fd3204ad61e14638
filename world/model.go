// Package world provides the compiled world model and spatial queries over it.
//
// A LevelModel is immutable once compiled or decoded: every query is a pure
// read and may run concurrently from many goroutines. Reloading means building
// a new LevelModel and swapping the reference.
package world

import (
	"github.com/eak1mov/go-libworld/grid"
)

// LevelModel is the compiled form of one editor project.
type LevelModel struct {
	SpawnPoint grid.Pos  `json:"spawn_point"`
	Rooms      []Room    `json:"rooms"`
	Tilesets   []Tileset `json:"tilesets"`
}

// Room corresponds to one editor level.
type Room struct {
	DisplayName string      `json:"display_name"`
	WorldPos    grid.Pos    `json:"world_pos"` // lower-left cell in world space
	Size        grid.Size   `json:"size"`
	Walls       []TileGroup `json:"walls"`
	Floors      []TileGroup `json:"floors"`
	Roofs       []TileGroup `json:"roofs"`
	Lights      []Light     `json:"lights"`
}

// PixelPos is a pixel coordinate inside a tileset source image.
type PixelPos struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type PixelSize struct {
	W int32 `json:"w"`
	H int32 `json:"h"`
}

// Rect is a source-image region.
type Rect struct {
	Origin PixelPos  `json:"origin"`
	Size   PixelSize `json:"size"`
}

// Tileset maps tile indices to source-image regions. Index 0 is never assigned.
type Tileset struct {
	ID              string          `json:"id"`
	SourceImagePath string          `json:"source_image_path"`
	Tiles           map[uint16]Rect `json:"tiles"`
	IsTilted        bool            `json:"is_tilted"`
}

// LightPos is a room-relative cell plus an abstract emission height band.
type LightPos struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Height int32 `json:"height"`
}

type Light struct {
	Pos   LightPos `json:"pos"`
	Color [4]uint8 `json:"color"` // RGBA
}

// Tileset returns the tileset with the given id.
func (m *LevelModel) Tileset(id string) (*Tileset, bool) {
	for i := range m.Tilesets {
		if m.Tilesets[i].ID == id {
			return &m.Tilesets[i], true
		}
	}
	return nil, false
}

// TileCount returns the number of tiles over all groups of the room.
func (r *Room) TileCount() int {
	count := 0
	for _, groups := range [][]TileGroup{r.Floors, r.Walls, r.Roofs} {
		for i := range groups {
			count += groups[i].Len()
		}
	}
	return count
}
