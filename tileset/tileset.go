// Package tileset builds tile index tables from editor tileset definitions.
package tileset

import (
	"errors"
	"fmt"
	"math"

	"github.com/eak1mov/go-libworld/world"
)

var ErrTooManyTiles = errors.New("libworld: too many tiles in tileset")

type Kind uint8

const (
	Ordinary Kind = iota
	// Tilted tiles span two source rows: each index addresses an even row
	// together with the row beneath it.
	Tilted
)

func (k Kind) String() string {
	switch k {
	case Ordinary:
		return "ordinary"
	case Tilted:
		return "tilted"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Definition is the input of Build.
type Definition struct {
	UID        int
	Path       string
	TileWidth  int32
	TileHeight int32
	Columns    int32
	Rows       int32
	Kind       Kind
}

// Build enumerates the tiles of def in row-major order starting at index 1.
// Zero columns or rows yield an empty table.
func Build(id string, def Definition) (world.Tileset, error) {
	ts := world.Tileset{
		ID:              id,
		SourceImagePath: def.Path,
		Tiles:           make(map[uint16]world.Rect),
		IsTilted:        def.Kind == Tilted,
	}
	if def.Columns <= 0 || def.Rows <= 0 {
		return ts, nil
	}

	rowStep, height := int32(1), def.TileHeight
	if def.Kind == Tilted {
		rowStep, height = 2, 2*def.TileHeight
	}

	count := int64(def.Columns) * int64((def.Rows+rowStep-1)/rowStep)
	if count > math.MaxUint16 {
		return world.Tileset{}, fmt.Errorf("%w: %q has %d tiles", ErrTooManyTiles, def.Path, count)
	}

	index := uint16(1)
	for row := int32(0); row < def.Rows; row += rowStep {
		for col := range def.Columns {
			ts.Tiles[index] = world.Rect{
				Origin: world.PixelPos{X: col * def.TileWidth, Y: row * def.TileHeight},
				Size:   world.PixelSize{W: def.TileWidth, H: height},
			}
			index++
		}
	}
	return ts, nil
}
