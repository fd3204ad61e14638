// Package compiler turns a decoded editor project into a world.LevelModel.
//
// Compilation is all-or-nothing: every failure in the project is collected and
// returned as one joined error, and no model is produced.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/layer"
	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/eak1mov/go-libworld/tileset"
	"github.com/eak1mov/go-libworld/world"
)

// Height bands of compiled lights.
const (
	LightHeightGround   int32 = 0
	LightHeightElevated int32 = 2
)

type compiler struct {
	options  compileOptions
	registry *tileset.Registry
	layers   map[int]string // layer definition uid -> tileset id

	anchorRows int32
	spawnSet   bool
	model      *world.LevelModel
	errs       []error
}

// Compile builds the level model of project.
func Compile(project *ldtk.Project, opts ...Option) (*world.LevelModel, error) {
	options := compileOptions{
		gridSize: project.DefaultGridSize,
		logger:   slog.New(slog.DiscardHandler),
	}
	if options.gridSize == 0 {
		options.gridSize = DefaultGridSize
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, options.gridSize)
	}
	if options.classifier == nil {
		options.classifier = layer.Default()
	}

	registryOpts := []tileset.RegistryOption{
		tileset.WithTilted(options.tilted...),
		tileset.WithLogger(options.logger),
	}
	if options.idFunc != nil {
		registryOpts = append(registryOpts, tileset.WithIDFunc(options.idFunc))
	}
	registry, err := tileset.NewRegistry(project, registryOpts...)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		options:  options,
		registry: registry,
		layers:   make(map[int]string),
		model:    &world.LevelModel{SpawnPoint: options.spawn},
	}
	for _, def := range project.Defs.Layers {
		if def.TilesetDefUID == nil {
			continue
		}
		if id, ok := registry.ID(*def.TilesetDefUID); ok {
			c.layers[def.UID] = id
		}
	}
	if len(project.Levels) > 0 {
		c.anchorRows = grid.PixelToCell(project.Levels[0].PxHei, options.gridSize)
	}

	for i := range project.Levels {
		level := &project.Levels[i]
		c.compileLevel(level)
		if options.progress != nil {
			options.progress(level.Identifier, i+1, len(project.Levels))
		}
	}
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}

	c.model.Tilesets = registry.Tilesets()
	return c.model, nil
}

func (c *compiler) compileLevel(level *ldtk.Level) {
	g := c.options.gridSize
	worldPos, size := grid.RoomRect(level.WorldX, level.WorldY, level.PxWid, level.PxHei, g, c.anchorRows)
	room := world.Room{
		DisplayName: level.Identifier,
		WorldPos:    worldPos,
		Size:        size,
	}
	logger := c.options.logger.With("level", level.Identifier)
	logger.Debug("libworld: compiling level", "world_pos", worldPos, "size", size)

	for i := range level.LayerInstances {
		instance := &level.LayerInstances[i]
		kind := c.options.classifier.Classify(instance.Identifier, instance.Type)
		layerLogger := logger.With("layer", instance.Identifier, "kind", kind)

		switch kind {
		case layer.Ignored:
			layerLogger.Debug("libworld: layer ignored")
		case layer.Light:
			for j := range instance.EntityInstances {
				entity := &instance.EntityInstances[j]
				light, err := compileLight(entity, g, size)
				if err != nil {
					c.errs = append(c.errs, &Error{
						Level: level.Identifier, Layer: instance.Identifier,
						Tile: -1, Entity: entity.Identifier, Err: err,
					})
					continue
				}
				room.Lights = append(room.Lights, light)
			}
			layerLogger.Debug("libworld: lights compiled", "lights", len(instance.EntityInstances))
		case layer.Spawn:
			c.compileSpawn(level, instance, &room, layerLogger)
		case layer.Floor, layer.Wall, layer.Roof:
			group, ok := c.compileTiles(level, instance, size, layerLogger)
			if !ok || group.Len() == 0 {
				continue
			}
			switch kind {
			case layer.Floor:
				room.Floors = append(room.Floors, group)
			case layer.Wall:
				room.Walls = append(room.Walls, group)
			case layer.Roof:
				room.Roofs = append(room.Roofs, group)
			}
		}
	}
	c.model.Rooms = append(c.model.Rooms, room)
}

func (c *compiler) compileTiles(level *ldtk.Level, instance *ldtk.LayerInstance, size grid.Size, logger *slog.Logger) (world.TileGroup, bool) {
	tilesetID, ok := c.layers[instance.LayerDefUID]
	if !ok {
		logger.Warn("libworld: layer has no tileset, skipped", "layer_def_uid", instance.LayerDefUID)
		return world.TileGroup{}, false
	}

	group := world.NewTileGroup(tilesetID)
	for i, tile := range instance.Placements() {
		origin := world.PixelPos{X: tile.Src[0], Y: tile.Src[1]}
		index, ok := c.registry.IndexOf(tilesetID, origin)
		if !ok {
			c.errs = append(c.errs, &Error{
				Level: level.Identifier, Layer: instance.Identifier, Tile: i,
				Err: fmt.Errorf("%w (%d, %d) in tileset %q", ErrUnresolvedTile, origin.X, origin.Y, tilesetID),
			})
			continue
		}
		cell := grid.RoomCell(tile.Px[0], tile.Px[1], c.options.gridSize, size.H)
		if !size.Contains(cell) {
			c.errs = append(c.errs, &Error{
				Level: level.Identifier, Layer: instance.Identifier, Tile: i,
				Err: fmt.Errorf("%w: px (%d, %d) maps to %v, room size %v", ErrOutOfBounds, tile.Px[0], tile.Px[1], cell, size),
			})
			continue
		}
		group.Set(cell.X, cell.Y, index)
	}
	logger.Debug("libworld: tiles compiled", "tiles", group.Len())
	return group, true
}

func (c *compiler) compileSpawn(level *ldtk.Level, instance *ldtk.LayerInstance, room *world.Room, logger *slog.Logger) {
	for i := range instance.EntityInstances {
		entity := &instance.EntityInstances[i]
		if c.spawnSet {
			logger.Warn("libworld: extra spawn marker ignored", "entity", entity.Identifier)
			continue
		}
		cell := grid.RoomCell(entity.Px[0], entity.Px[1], c.options.gridSize, room.Size.H)
		if !room.Size.Contains(cell) {
			c.errs = append(c.errs, &Error{
				Level: level.Identifier, Layer: instance.Identifier, Tile: -1, Entity: entity.Identifier,
				Err: fmt.Errorf("%w: spawn px (%d, %d), room size %v", ErrOutOfBounds, entity.Px[0], entity.Px[1], room.Size),
			})
			return
		}
		c.model.SpawnPoint = room.WorldPos.Add(cell)
		c.spawnSet = true
		logger.Debug("libworld: spawn point set", "spawn_point", c.model.SpawnPoint)
	}
}

// compileLight reads the first Color, Int (alpha) and Bool (elevated) fields
// of the entity.
func compileLight(entity *ldtk.EntityInstance, gridSize int32, size grid.Size) (world.Light, error) {
	var (
		color    *ldtk.Color
		alpha    *ldtk.Int
		elevated *ldtk.Bool
	)
	for i := range entity.FieldInstances {
		field := &entity.FieldInstances[i]
		switch {
		case field.Type == ldtk.FieldColor && color == nil,
			field.Type == ldtk.FieldInt && alpha == nil,
			field.Type == ldtk.FieldBool && elevated == nil:
		default:
			continue
		}
		value, err := field.Decode()
		if err != nil {
			return world.Light{}, fmt.Errorf("%w: %w", ErrMalformedField, err)
		}
		switch v := value.(type) {
		case ldtk.Color:
			color = &v
		case ldtk.Int:
			alpha = &v
		case ldtk.Bool:
			elevated = &v
		}
	}

	switch {
	case color == nil:
		return world.Light{}, fmt.Errorf("%w: missing %v field", ErrMalformedField, ldtk.FieldColor)
	case alpha == nil:
		return world.Light{}, fmt.Errorf("%w: missing %v field", ErrMalformedField, ldtk.FieldInt)
	case elevated == nil:
		return world.Light{}, fmt.Errorf("%w: missing %v field", ErrMalformedField, ldtk.FieldBool)
	case *alpha < 0 || *alpha > 255:
		return world.Light{}, fmt.Errorf("%w: alpha %d out of range", ErrMalformedField, *alpha)
	}

	height := LightHeightGround
	if *elevated {
		height = LightHeightElevated
	}
	cell := grid.RoomCell(entity.Px[0], entity.Px[1], gridSize, size.H)
	if !size.Contains(cell) {
		return world.Light{}, fmt.Errorf("%w: light px (%d, %d), room size %v", ErrOutOfBounds, entity.Px[0], entity.Px[1], size)
	}
	return world.Light{
		Pos:   world.LightPos{X: cell.X, Y: cell.Y, Height: height},
		Color: [4]uint8{color.R, color.G, color.B, uint8(*alpha)},
	}, nil
}
