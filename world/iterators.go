package world

import (
	"errors"
	"iter"

	"github.com/eak1mov/go-libworld/grid"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterTiles returns an iterator over all tiles of the group ordered by X, then Y.
func IterTiles(g *TileGroup) iter.Seq2[grid.Pos, uint16] {
	return func(yield func(grid.Pos, uint16) bool) {
		err := g.VisitTiles(func(pos grid.Pos, index uint16) error {
			if !yield(pos, index) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}

// GroupKind pairs a tile group with the bucket it was stored in.
type GroupKind struct {
	Type  TileType
	Group *TileGroup
}

// IterGroups returns an iterator over every tile group of the room: floors,
// then walls, then roofs, each in stored order.
func IterGroups(r *Room) iter.Seq[GroupKind] {
	return func(yield func(GroupKind) bool) {
		for _, bucket := range []struct {
			groups   []TileGroup
			tileType TileType
		}{
			{r.Floors, TileFloor},
			{r.Walls, TileWall},
			{r.Roofs, TileRoof},
		} {
			for i := range bucket.groups {
				if !yield(GroupKind{Type: bucket.tileType, Group: &bucket.groups[i]}) {
					return
				}
			}
		}
	}
}
