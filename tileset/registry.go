package tileset

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/eak1mov/go-libworld/world"
)

// TiltedTag marks a tileset definition whose tiles span two rows.
const TiltedTag = "tilted"

// Registry holds the tilesets of one project and resolves editor references to them.
type Registry struct {
	tilesets []world.Tileset
	ids      map[int]string // definition uid -> tileset id
	byID     map[string]int // tileset id -> position in tilesets
	origins  map[string]map[world.PixelPos]uint16
}

type registryOptions struct {
	tilted []string
	idFunc func(*ldtk.TilesetDefinition) string
	logger *slog.Logger
}

type RegistryOption func(*registryOptions)

// WithTilted treats the listed tileset identifiers as tilted in addition to
// those tagged with TiltedTag.
func WithTilted(identifiers ...string) RegistryOption {
	return func(o *registryOptions) {
		o.tilted = append(o.tilted, identifiers...)
	}
}

func WithIDFunc(idFunc func(*ldtk.TilesetDefinition) string) RegistryOption {
	return func(o *registryOptions) {
		o.idFunc = idFunc
	}
}

func WithLogger(logger *slog.Logger) RegistryOption {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

// DefaultID derives a stable tileset id from the definition.
func DefaultID(def *ldtk.TilesetDefinition) string {
	sum := md5.Sum([]byte(strconv.Itoa(def.UID) + "/" + def.Identifier + "/" + def.RelPath))
	return hex.EncodeToString(sum[:])
}

// NewRegistry builds every tileset of the project in definition order.
func NewRegistry(project *ldtk.Project, opts ...RegistryOption) (*Registry, error) {
	options := registryOptions{
		idFunc: DefaultID,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&options)
	}

	r := &Registry{
		ids:     make(map[int]string),
		byID:    make(map[string]int),
		origins: make(map[string]map[world.PixelPos]uint16),
	}
	for i := range project.Defs.Tilesets {
		def := &project.Defs.Tilesets[i]
		id := options.idFunc(def)
		if _, ok := r.byID[id]; ok {
			return nil, fmt.Errorf("libworld: duplicate tileset id %q for %q", id, def.Identifier)
		}

		kind := Ordinary
		if def.HasTag(TiltedTag) || slices.Contains(options.tilted, def.Identifier) {
			kind = Tilted
		}
		ts, err := Build(id, Definition{
			UID:        def.UID,
			Path:       def.RelPath,
			TileWidth:  def.TileGridSize,
			TileHeight: def.TileGridSize,
			Columns:    def.CWid,
			Rows:       def.CHei,
			Kind:       kind,
		})
		if err != nil {
			return nil, fmt.Errorf("tileset %q: %w", def.Identifier, err)
		}

		origins := make(map[world.PixelPos]uint16, len(ts.Tiles))
		for index, rect := range ts.Tiles {
			origins[rect.Origin] = index
		}

		r.ids[def.UID] = id
		r.byID[id] = len(r.tilesets)
		r.origins[id] = origins
		r.tilesets = append(r.tilesets, ts)

		options.logger.Debug("libworld: tileset registered",
			"identifier", def.Identifier, "id", id, "kind", kind, "tiles", len(ts.Tiles))
	}
	return r, nil
}

// Tilesets returns the registered tilesets in definition order.
func (r *Registry) Tilesets() []world.Tileset {
	return r.tilesets
}

// ID returns the tileset id assigned to the definition uid.
func (r *Registry) ID(uid int) (string, bool) {
	id, ok := r.ids[uid]
	return id, ok
}

func (r *Registry) Lookup(id string) (*world.Tileset, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return &r.tilesets[i], true
}

// IndexOf returns the tile index whose source rectangle starts exactly at origin.
func (r *Registry) IndexOf(id string, origin world.PixelPos) (uint16, bool) {
	index, ok := r.origins[id][origin]
	return index, ok
}
