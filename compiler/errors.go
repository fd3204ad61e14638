package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnresolvedTile  = errors.New("libworld: unresolved tile source offset")
	ErrMalformedField  = errors.New("libworld: malformed entity field")
	ErrInvalidGridSize = errors.New("libworld: invalid grid size")
	ErrOutOfBounds     = errors.New("libworld: cell outside room")
)

// Error locates a compilation failure inside the project.
type Error struct {
	Level  string
	Layer  string
	Tile   int    // placement ordinal in the layer, -1 if not a tile error
	Entity string // entity identifier, empty if not an entity error
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "level %q, layer %q", e.Level, e.Layer)
	if e.Tile >= 0 {
		fmt.Fprintf(&b, ", tile %d", e.Tile)
	}
	if e.Entity != "" {
		fmt.Fprintf(&b, ", entity %q", e.Entity)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}
