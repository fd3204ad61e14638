package internal

import (
	"iter"
	"math"

	"github.com/eak1mov/go-libworld/grid"
	"github.com/eak1mov/go-libworld/tileset"
	"github.com/eak1mov/go-libworld/world"
)

func group(tilesetID string, tiles map[grid.Pos]uint16) world.TileGroup {
	g := world.NewTileGroup(tilesetID)
	for pos, index := range tiles {
		g.Set(pos.X, pos.Y, index)
	}
	return g
}

func mustBuild(id string, def tileset.Definition) world.Tileset {
	ts, err := tileset.Build(id, def)
	if err != nil {
		panic(err)
	}
	return ts
}

// ScenarioModel is one 4x4 room with a floor and a roof tile sharing cell (1, 1).
func ScenarioModel() *world.LevelModel {
	return &world.LevelModel{
		Rooms: []world.Room{{
			DisplayName: "Scenario",
			Size:        grid.Size{W: 4, H: 4},
			Floors:      []world.TileGroup{group("floor", map[grid.Pos]uint16{{X: 1, Y: 1}: 5})},
			Roofs:       []world.TileGroup{group("roof", map[grid.Pos]uint16{{X: 1, Y: 1}: 9})},
		}},
		Tilesets: []world.Tileset{
			mustBuild("floor", tileset.Definition{Path: "floor.png", TileWidth: 16, TileHeight: 16, Columns: 4, Rows: 2}),
			mustBuild("roof", tileset.Definition{Path: "roof.png", TileWidth: 16, TileHeight: 16, Columns: 3, Rows: 3}),
		},
	}
}

// RichModel exercises every field: negative positions, several rooms, lights
// and a tilted tileset.
func RichModel() *world.LevelModel {
	walls := world.NewTileGroup("wall")
	for x := range int32(20) {
		walls.Set(x, 0, uint16(x%4+1))
		walls.Set(x, 19, uint16(x%4+1))
	}
	return &world.LevelModel{
		SpawnPoint: grid.Pos{X: -3, Y: 7},
		Rooms: []world.Room{
			{
				DisplayName: "Hall",
				WorldPos:    grid.Pos{X: -20, Y: 0},
				Size:        grid.Size{W: 20, H: 20},
				Walls:       []world.TileGroup{walls},
				Floors: []world.TileGroup{
					group("floor", map[grid.Pos]uint16{{X: 1, Y: 1}: 1, {X: 2, Y: 1}: 8, {X: 18, Y: 18}: 3}),
					group("floor", map[grid.Pos]uint16{{X: 5, Y: 5}: 2}),
				},
				Roofs: []world.TileGroup{group("roof", map[grid.Pos]uint16{{X: 10, Y: 10}: 9})},
				Lights: []world.Light{
					{Pos: world.LightPos{X: 3, Y: 4, Height: 2}, Color: [4]uint8{255, 128, 0, 200}},
					{Pos: world.LightPos{X: 0, Y: 0, Height: 0}, Color: [4]uint8{0, 0, 0, 0}},
				},
			},
			{
				DisplayName: "",
				WorldPos:    grid.Pos{X: math.MaxInt32 - 4, Y: math.MinInt32},
				Size:        grid.Size{W: 4, H: 4},
				Floors:      []world.TileGroup{group("floor", map[grid.Pos]uint16{{X: 3, Y: 3}: 4})},
			},
			{
				DisplayName: "Closet",
				WorldPos:    grid.Pos{X: 0, Y: -1},
				Size:        grid.Size{W: 1, H: 1},
			},
		},
		Tilesets: []world.Tileset{
			mustBuild("floor", tileset.Definition{Path: "tiles/floor.png", TileWidth: 16, TileHeight: 16, Columns: 4, Rows: 2}),
			mustBuild("wall", tileset.Definition{Path: "tiles/wall.png", TileWidth: 16, TileHeight: 16, Columns: 2, Rows: 4, Kind: tileset.Tilted}),
			mustBuild("roof", tileset.Definition{Path: "tiles/roof.png", TileWidth: 16, TileHeight: 16, Columns: 3, Rows: 3}),
		},
	}
}

// ModelCases yields the shared models used by persistence tests.
func ModelCases() iter.Seq2[string, *world.LevelModel] {
	return func(yield func(string, *world.LevelModel) bool) {
		for _, tc := range []struct {
			name  string
			model func() *world.LevelModel
		}{
			{"empty", func() *world.LevelModel { return &world.LevelModel{} }},
			{"scenario", ScenarioModel},
			{"rich", RichModel},
		} {
			if !yield(tc.name, tc.model()) {
				return
			}
		}
	}
}
