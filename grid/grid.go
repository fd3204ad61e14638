// Package grid provides grid coordinates and the two conversions used by the
// compiler: pixel to grid cell, and editor (Y down) to world (Y up).
package grid

// Pos is a cell address in grid space.
type Pos struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Pos) Sub(o Pos) Pos {
	return Pos{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size holds grid dimensions. Both components are non-negative.
type Size struct {
	W int32 `json:"w"`
	H int32 `json:"h"`
}

// Contains reports whether p lies in [0, W) x [0, H).
func (s Size) Contains(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.W && p.Y < s.H
}

// FloorDiv divides a by b rounding toward negative infinity. b must be positive.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// PixelToCell converts a pixel coordinate into a cell index without any axis flip.
func PixelToCell(px, gridSize int32) int32 {
	return FloorDiv(px, gridSize)
}

// RoomRect returns the world origin (lower-left cell) and size of a room
// authored at editor pixel offset (worldX, worldY) with pixel size (pxW, pxH).
//
// Editor Y grows downward, world Y grows upward. anchorRows shifts the whole
// world vertically so that a room of anchorRows rows placed at editor Y 0 has
// its origin at world Y 0.
func RoomRect(worldX, worldY, pxW, pxH, gridSize, anchorRows int32) (Pos, Size) {
	size := Size{
		W: max(PixelToCell(pxW, gridSize), 0),
		H: max(PixelToCell(pxH, gridSize), 0),
	}
	origin := Pos{
		X: PixelToCell(worldX, gridSize),
		Y: anchorRows - PixelToCell(worldY+pxH, gridSize),
	}
	return origin, size
}

// RoomCell converts a pixel position relative to the room's top-left corner
// into a room-relative cell with Y flipped onto the room's own height, so row 0
// is the bottom row. Pixels past the last whole cell map outside the room.
func RoomCell(px, py, gridSize, roomRows int32) Pos {
	return Pos{
		X: PixelToCell(px, gridSize),
		Y: roomRows - 1 - PixelToCell(py, gridSize),
	}
}
