package world

import (
	"maps"
	"slices"

	"github.com/eak1mov/go-libworld/grid"
)

// TileGroup is the sparse index of one layer of one room: grid X -> grid Y ->
// tile index, in room-relative coordinates. A missing entry means "no tile".
type TileGroup struct {
	TilesetID string                     `json:"tileset_id"`
	Tiles     map[int32]map[int32]uint16 `json:"tiles"`
}

func NewTileGroup(tilesetID string) TileGroup {
	return TileGroup{TilesetID: tilesetID, Tiles: make(map[int32]map[int32]uint16)}
}

// Set records a tile, replacing any tile already at (x, y).
func (g *TileGroup) Set(x, y int32, index uint16) {
	if g.Tiles == nil {
		g.Tiles = make(map[int32]map[int32]uint16)
	}
	column, ok := g.Tiles[x]
	if !ok {
		column = make(map[int32]uint16)
		g.Tiles[x] = column
	}
	column[y] = index
}

// Get returns the tile index at (x, y). Lookups on a nil map are fine.
func (g *TileGroup) Get(x, y int32) (uint16, bool) {
	index, ok := g.Tiles[x][y]
	return index, ok
}

func (g *TileGroup) Has(x, y int32) bool {
	_, ok := g.Tiles[x][y]
	return ok
}

func (g *TileGroup) Len() int {
	count := 0
	for _, column := range g.Tiles {
		count += len(column)
	}
	return count
}

// VisitTiles calls visitor for every tile ordered by X, then Y.
// It stops at and returns the first error returned by visitor.
func (g *TileGroup) VisitTiles(visitor func(grid.Pos, uint16) error) error {
	for _, x := range slices.Sorted(maps.Keys(g.Tiles)) {
		column := g.Tiles[x]
		for _, y := range slices.Sorted(maps.Keys(column)) {
			if err := visitor(grid.Pos{X: x, Y: y}, column[y]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Bounds returns the smallest cell range holding every tile as [min, max].
// ok is false for an empty group.
func (g *TileGroup) Bounds() (lo, hi grid.Pos, ok bool) {
	for x, column := range g.Tiles {
		for y := range column {
			if !ok {
				lo, hi, ok = grid.Pos{X: x, Y: y}, grid.Pos{X: x, Y: y}, true
				continue
			}
			lo.X, lo.Y = min(lo.X, x), min(lo.Y, y)
			hi.X, hi.Y = max(hi.X, x), max(hi.Y, y)
		}
	}
	return lo, hi, ok
}

