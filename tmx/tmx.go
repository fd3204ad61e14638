// Package tmx imports Tiled TMX maps as an ldtk.Project so that they can be
// compiled like any other editor export.
//
// Each map file becomes one level. Tile layers become tile layer instances,
// object groups become entity layers, and typed object properties become
// entity fields.
package tmx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/eak1mov/go-libworld/tileset"
	"github.com/lafriks/go-tiled"
)

var (
	ErrMixedTilesets      = errors.New("libworld: layer uses more than one tileset")
	ErrUnsupportedTileset = errors.New("libworld: unsupported tileset")
)

type importOptions struct {
	logger *slog.Logger
}

type Option func(*importOptions)

func WithLogger(logger *slog.Logger) Option {
	return func(o *importOptions) {
		o.logger = logger
	}
}

type layerKey struct {
	name    string
	tileset int // tileset uid, 0 for entity layers
}

type importer struct {
	logger   *slog.Logger
	project  *ldtk.Project
	nextUID  int
	tilesets map[string]*tiledTileset
	layers   map[layerKey]int
}

type tiledTileset struct {
	uid        int
	tileWidth  int32
	tileHeight int32
	columns    int32
}

// Import loads the listed map files from fsys.
func Import(fsys fs.FS, levels []Level, opts ...Option) (*ldtk.Project, error) {
	options := importOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&options)
	}

	im := &importer{
		logger:   options.logger,
		project:  &ldtk.Project{},
		nextUID:  1,
		tilesets: make(map[string]*tiledTileset),
		layers:   make(map[layerKey]int),
	}
	for _, level := range levels {
		levelMap, err := tiled.LoadFile(level.Path, tiled.WithFileSystem(fsys))
		if err != nil {
			return nil, fmt.Errorf("libworld: load TMX %s: %w", level.Path, err)
		}
		if im.project.DefaultGridSize == 0 {
			im.project.DefaultGridSize = int32(levelMap.TileWidth)
		}
		if err := im.importMap(level, levelMap); err != nil {
			return nil, fmt.Errorf("%s: %w", level.Path, err)
		}
	}
	return im.project, nil
}

func (im *importer) uid() int {
	uid := im.nextUID
	im.nextUID++
	return uid
}

func (im *importer) tileset(mapPath string, ts *tiled.Tileset) (*tiledTileset, error) {
	if known, ok := im.tilesets[ts.Name]; ok {
		return known, nil
	}
	if ts.Spacing != 0 || ts.Margin != 0 {
		return nil, fmt.Errorf("%w: %q has spacing or margin", ErrUnsupportedTileset, ts.Name)
	}
	if ts.Image == nil || ts.Columns <= 0 {
		return nil, fmt.Errorf("%w: %q is not a single-image tileset", ErrUnsupportedTileset, ts.Name)
	}

	rows := int32((ts.TileCount + ts.Columns - 1) / ts.Columns)
	def := ldtk.TilesetDefinition{
		UID:          im.uid(),
		Identifier:   ts.Name,
		CWid:         int32(ts.Columns),
		CHei:         rows,
		TileGridSize: int32(ts.TileWidth),
		RelPath:      path.Join(path.Dir(mapPath), ts.Image.Source),
	}
	if ts.TileHeight == 2*ts.TileWidth {
		def.CHei = 2 * rows
		def.Tags = []string{tileset.TiltedTag}
	} else if ts.TileHeight != ts.TileWidth {
		return nil, fmt.Errorf("%w: %q tiles are %dx%d", ErrUnsupportedTileset, ts.Name, ts.TileWidth, ts.TileHeight)
	}
	im.project.Defs.Tilesets = append(im.project.Defs.Tilesets, def)
	im.logger.Debug("libworld: tileset imported", "tileset", ts.Name, "tags", def.Tags)

	known := &tiledTileset{
		uid:        def.UID,
		tileWidth:  int32(ts.TileWidth),
		tileHeight: int32(ts.TileHeight),
		columns:    int32(ts.Columns),
	}
	im.tilesets[ts.Name] = known
	return known, nil
}

func (im *importer) layerDef(name string, layerType ldtk.LayerType, gridSize int32, tilesetUID int) int {
	key := layerKey{name: name, tileset: tilesetUID}
	if uid, ok := im.layers[key]; ok {
		return uid
	}
	def := ldtk.LayerDefinition{
		UID:        im.uid(),
		Identifier: name,
		Type:       layerType,
		GridSize:   gridSize,
	}
	if tilesetUID != 0 {
		def.TilesetDefUID = &tilesetUID
	}
	im.project.Defs.Layers = append(im.project.Defs.Layers, def)
	im.layers[key] = def.UID
	return def.UID
}

func (im *importer) importMap(level Level, levelMap *tiled.Map) error {
	gridSize := int32(levelMap.TileWidth)
	out := ldtk.Level{
		Identifier: level.Name,
		PxWid:      int32(levelMap.Width * levelMap.TileWidth),
		PxHei:      int32(levelMap.Height * levelMap.TileHeight),
		WorldX:     level.WorldX,
		WorldY:     level.WorldY,
	}

	for _, layer := range levelMap.Layers {
		var used *tiled.Tileset
		var tiles []ldtk.GridTile
		var ts *tiledTileset
		for i, cell := range layer.Tiles {
			if cell == nil || cell.IsNil() {
				continue
			}
			if used == nil {
				var err error
				if ts, err = im.tileset(level.Path, cell.Tileset); err != nil {
					return err
				}
				used = cell.Tileset
			} else if cell.Tileset != used {
				return fmt.Errorf("%w: layer %q", ErrMixedTilesets, layer.Name)
			}

			id := int32(cell.ID)
			x, y := int32(i%levelMap.Width), int32(i/levelMap.Width)
			tiles = append(tiles, ldtk.GridTile{
				Px:  [2]int32{x * int32(levelMap.TileWidth), y * int32(levelMap.TileHeight)},
				Src: [2]int32{id % ts.columns * ts.tileWidth, id / ts.columns * ts.tileHeight},
			})
		}
		if used == nil {
			im.logger.Debug("libworld: empty layer skipped", "level", level.Name, "layer", layer.Name)
			continue
		}
		out.LayerInstances = append(out.LayerInstances, ldtk.LayerInstance{
			Identifier:  layer.Name,
			Type:        ldtk.LayerTiles,
			CWid:        int32(levelMap.Width),
			CHei:        int32(levelMap.Height),
			GridSize:    gridSize,
			LayerDefUID: im.layerDef(layer.Name, ldtk.LayerTiles, gridSize, ts.uid),
			GridTiles:   tiles,
		})
	}

	for _, group := range levelMap.ObjectGroups {
		instance := ldtk.LayerInstance{
			Identifier:  group.Name,
			Type:        ldtk.LayerEntities,
			CWid:        int32(levelMap.Width),
			CHei:        int32(levelMap.Height),
			GridSize:    gridSize,
			LayerDefUID: im.layerDef(group.Name, ldtk.LayerEntities, gridSize, 0),
		}
		for _, object := range group.Objects {
			fields, err := objectFields(object)
			if err != nil {
				return fmt.Errorf("object group %q: %w", group.Name, err)
			}
			instance.EntityInstances = append(instance.EntityInstances, ldtk.EntityInstance{
				Identifier:     object.Name,
				Px:             [2]int32{int32(math.Floor(object.X)), int32(math.Floor(object.Y))},
				FieldInstances: fields,
			})
		}
		out.LayerInstances = append(out.LayerInstances, instance)
	}

	im.project.Levels = append(im.project.Levels, out)
	return nil
}

// objectFields converts typed properties. String and file properties are dropped.
func objectFields(object *tiled.Object) ([]ldtk.FieldInstance, error) {
	var fields []ldtk.FieldInstance
	for _, p := range object.Properties {
		var value ldtk.FieldValue
		switch p.Type {
		case "color":
			c, err := parseColor(p.Value)
			if err != nil {
				return nil, fmt.Errorf("object %q property %q: %w", object.Name, p.Name, err)
			}
			value = c
		case "int":
			v, err := strconv.ParseInt(p.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("object %q property %q: %w", object.Name, p.Name, err)
			}
			value = ldtk.Int(v)
		case "float":
			v, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("object %q property %q: %w", object.Name, p.Name, err)
			}
			value = ldtk.Float(v)
		case "bool":
			v, err := strconv.ParseBool(p.Value)
			if err != nil {
				return nil, fmt.Errorf("object %q property %q: %w", object.Name, p.Name, err)
			}
			value = ldtk.Bool(v)
		default:
			continue
		}
		fields = append(fields, ldtk.NewField(p.Name, value))
	}
	return fields, nil
}

// parseColor accepts Tiled "#AARRGGBB" and "#RRGGBB" colors. Alpha is dropped.
func parseColor(s string) (ldtk.Color, error) {
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		s = "#" + s[3:]
	}
	return ldtk.ParseColor(s)
}
