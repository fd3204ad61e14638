package store_test

import (
	"testing"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/store"
	"github.com/google/go-cmp/cmp"
)

func TestEncodeDecodeCell(t *testing.T) {
	for _, size := range []grid.Size{{W: 1, H: 1}, {W: 4, H: 4}, {W: 20, H: 7}, {W: 3, H: 33}} {
		seen := make(map[uint64]grid.Pos)
		for x := range size.W {
			for y := range size.H {
				pos := grid.Pos{X: x, Y: y}
				code := store.EncodeCell(pos, size)
				if diff := cmp.Diff(pos, store.DecodeCell(code, size)); diff != "" {
					t.Errorf("DecodeCell(EncodeCell(%v, %v)) mismatch (-want+got):\n%v", pos, size, diff)
				}
				if other, ok := seen[code]; ok {
					t.Errorf("EncodeCell(%v) = EncodeCell(%v) = %v", pos, other, code)
				}
				seen[code] = pos
			}
		}
	}
}

func TestEncodeCellLocality(t *testing.T) {
	size := grid.Size{W: 4, H: 4}
	// Consecutive codes are always neighbouring cells.
	for code := range uint64(15) {
		a, b := store.DecodeCell(code, size), store.DecodeCell(code+1, size)
		dx, dy := a.X-b.X, a.Y-b.Y
		if dx*dx+dy*dy != 1 {
			t.Errorf("DecodeCell(%v) = %v and DecodeCell(%v) = %v are not adjacent", code, a, code+1, b)
		}
	}
}
