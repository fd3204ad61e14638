package world

import (
	"errors"
	"fmt"

	"github.com/eak1mov/go-libworld/grid"
)

var ErrInvalidModel = errors.New("libworld: invalid model")

// Validate checks the structural invariants of a model: every tile lies inside
// its room, every group references a known tileset and every tile index is
// registered in that tileset. Queries never call it.
func (m *LevelModel) Validate() error {
	var errs []error
	ids := make(map[string]*Tileset, len(m.Tilesets))
	for i := range m.Tilesets {
		tileset := &m.Tilesets[i]
		if _, dup := ids[tileset.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: duplicate tileset id %q", ErrInvalidModel, tileset.ID))
		}
		ids[tileset.ID] = tileset
		if _, ok := tileset.Tiles[0]; ok {
			errs = append(errs, fmt.Errorf("%w: tileset %q assigns index 0", ErrInvalidModel, tileset.ID))
		}
	}

	for ri := range m.Rooms {
		room := &m.Rooms[ri]
		if room.Size.W < 0 || room.Size.H < 0 {
			errs = append(errs, fmt.Errorf("%w: room %d (%q) has negative size %v", ErrInvalidModel, ri, room.DisplayName, room.Size))
		}
		for gk := range IterGroups(room) {
			tileset, ok := ids[gk.Group.TilesetID]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: room %d (%q) %v group references unknown tileset %q",
					ErrInvalidModel, ri, room.DisplayName, gk.Type, gk.Group.TilesetID))
				continue
			}
			err := gk.Group.VisitTiles(func(pos grid.Pos, index uint16) error {
				if pos.X < 0 || pos.Y < 0 || pos.X >= room.Size.W || pos.Y >= room.Size.H {
					return fmt.Errorf("%w: room %d (%q) %v tile at %v outside size %v",
						ErrInvalidModel, ri, room.DisplayName, gk.Type, pos, room.Size)
				}
				if _, ok := tileset.Tiles[index]; !ok {
					return fmt.Errorf("%w: room %d (%q) %v tile at %v uses unknown index %d of tileset %q",
						ErrInvalidModel, ri, room.DisplayName, gk.Type, pos, index, tileset.ID)
				}
				return nil
			})
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
