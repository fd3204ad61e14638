package store

import (
	"math/bits"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/google/hilbert"
)

// side returns the smallest power of two covering both room dimensions.
func side(size grid.Size) int {
	longest := max(size.W, size.H, 1)
	return 1 << bits.Len32(uint32(longest-1))
}

// EncodeCell returns the position of a room-relative cell along the Hilbert
// curve covering the room. The cell must lie inside the room.
func EncodeCell(pos grid.Pos, size grid.Size) uint64 {
	h, _ := hilbert.NewHilbert(side(size))
	code, _ := h.MapInverse(int(pos.X), int(pos.Y))
	return uint64(code)
}

func DecodeCell(code uint64, size grid.Size) grid.Pos {
	h, _ := hilbert.NewHilbert(side(size))
	x, y, _ := h.Map(int(code))
	return grid.Pos{X: int32(x), Y: int32(y)}
}
