package world

import (
	"encoding/json"
	"fmt"

	"github.com/eak1mov/go-libworld/grid"
)

// TileType is the category of a tile bucket.
type TileType uint8

const (
	TileFloor TileType = iota + 1
	TileWall
	TileRoof
)

func (t TileType) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileRoof:
		return "roof"
	}
	return fmt.Sprintf("TileType(%d)", uint8(t))
}

func (t TileType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Blocking reports whether the category stops movement.
func (t TileType) Blocking() bool {
	return t == TileWall || t == TileRoof
}

// Local translates an absolute cell into room-relative coordinates. ok is false
// when the cell lies outside [0, Size.W) x [0, Size.H).
func (r *Room) Local(pos grid.Pos) (local grid.Pos, ok bool) {
	// int64 keeps the subtraction exact for any pair of int32 coordinates.
	x := int64(pos.X) - int64(r.WorldPos.X)
	y := int64(pos.Y) - int64(r.WorldPos.Y)
	if x < 0 || y < 0 || x >= int64(r.Size.W) || y >= int64(r.Size.H) {
		return grid.Pos{}, false
	}
	return grid.Pos{X: int32(x), Y: int32(y)}, true
}

// Contains reports whether the absolute cell lies inside the room bounds.
func (r *Room) Contains(pos grid.Pos) bool {
	_, ok := r.Local(pos)
	return ok
}

// TileAt returns the highest-priority category recorded at an absolute cell of
// the room: roof, then wall, then floor.
func (r *Room) TileAt(pos grid.Pos) (TileType, bool) {
	local, ok := r.Local(pos)
	if !ok {
		return 0, false
	}
	switch {
	case anyHas(r.Roofs, local):
		return TileRoof, true
	case anyHas(r.Walls, local):
		return TileWall, true
	case anyHas(r.Floors, local):
		return TileFloor, true
	}
	return 0, false
}

func (r *Room) ContainsFloor(pos grid.Pos) bool {
	local, ok := r.Local(pos)
	return ok && anyHas(r.Floors, local)
}

func anyHas(groups []TileGroup, local grid.Pos) bool {
	for i := range groups {
		if groups[i].Has(local.X, local.Y) {
			return true
		}
	}
	return false
}

// RoomAt returns the first room whose bounds contain pos.
func (m *LevelModel) RoomAt(pos grid.Pos) (*Room, bool) {
	for i := range m.Rooms {
		if m.Rooms[i].Contains(pos) {
			return &m.Rooms[i], true
		}
	}
	return nil, false
}

// ContainsFloor reports whether any room records a floor tile at pos.
// A cell outside every room is simply false.
func (m *LevelModel) ContainsFloor(pos grid.Pos) bool {
	for i := range m.Rooms {
		if m.Rooms[i].ContainsFloor(pos) {
			return true
		}
	}
	return false
}

// TileAt returns the blocking-first category at pos, trying rooms in order.
// Rooms whose bounds contain pos but hold no tile there do not stop the search.
func (m *LevelModel) TileAt(pos grid.Pos) (TileType, bool) {
	for i := range m.Rooms {
		if tileType, ok := m.Rooms[i].TileAt(pos); ok {
			return tileType, true
		}
	}
	return 0, false
}
