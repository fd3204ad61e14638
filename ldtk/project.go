// Package ldtk provides the decoded form of an LDtk level-editor export.
//
// Only the subset of the format consumed by the compiler is modelled.
// Unknown JSON fields are ignored.
package ldtk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

type LayerType string

const (
	LayerEntities  LayerType = "Entities"
	LayerTiles     LayerType = "Tiles"
	LayerIntGrid   LayerType = "IntGrid"
	LayerAutoLayer LayerType = "AutoLayer"
)

// HasTiles reports whether instances of the layer type carry tile placements.
func (t LayerType) HasTiles() bool {
	return t == LayerTiles || t == LayerIntGrid || t == LayerAutoLayer
}

type Project struct {
	JSONVersion     string      `json:"jsonVersion"`
	DefaultGridSize int32       `json:"defaultGridSize"`
	Defs            Definitions `json:"defs"`
	Levels          []Level     `json:"levels"`
}

type Definitions struct {
	Layers   []LayerDefinition   `json:"layers"`
	Tilesets []TilesetDefinition `json:"tilesets"`
	Entities []EntityDefinition  `json:"entities"`
}

type LayerDefinition struct {
	UID           int       `json:"uid"`
	Identifier    string    `json:"identifier"`
	Type          LayerType `json:"__type"`
	GridSize      int32     `json:"gridSize"`
	TilesetDefUID *int      `json:"tilesetDefUid"`
}

type TilesetDefinition struct {
	UID          int      `json:"uid"`
	Identifier   string   `json:"identifier"`
	CWid         int32    `json:"__cWid"`
	CHei         int32    `json:"__cHei"`
	TileGridSize int32    `json:"tileGridSize"`
	RelPath      string   `json:"relPath"`
	Tags         []string `json:"tags"`
}

func (d *TilesetDefinition) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

type EntityDefinition struct {
	UID        int    `json:"uid"`
	Identifier string `json:"identifier"`
}

type Level struct {
	Identifier     string          `json:"identifier"`
	PxWid          int32           `json:"pxWid"`
	PxHei          int32           `json:"pxHei"`
	WorldX         int32           `json:"worldX"`
	WorldY         int32           `json:"worldY"`
	LayerInstances []LayerInstance `json:"layerInstances"`
}

type LayerInstance struct {
	Identifier      string           `json:"__identifier"`
	Type            LayerType        `json:"__type"`
	CWid            int32            `json:"__cWid"`
	CHei            int32            `json:"__cHei"`
	GridSize        int32            `json:"__gridSize"`
	LayerDefUID     int              `json:"layerDefUid"`
	GridTiles       []GridTile       `json:"gridTiles"`
	AutoLayerTiles  []GridTile       `json:"autoLayerTiles"`
	EntityInstances []EntityInstance `json:"entityInstances"`
}

// Placements returns manual tiles followed by auto-layer tiles.
func (l *LayerInstance) Placements() []GridTile {
	if len(l.AutoLayerTiles) == 0 {
		return l.GridTiles
	}
	return slices.Concat(l.GridTiles, l.AutoLayerTiles)
}

// GridTile is one tile placement. Both positions address the top-left corner.
type GridTile struct {
	Px  [2]int32 `json:"px"`  // position in the layer
	Src [2]int32 `json:"src"` // position in the tileset image
}

type EntityInstance struct {
	Identifier     string          `json:"__identifier"`
	DefUID         int             `json:"defUid"`
	Px             [2]int32        `json:"px"`
	FieldInstances []FieldInstance `json:"fieldInstances"`
}

// Read decodes a project from r.
func Read(r io.Reader) (*Project, error) {
	var project Project
	if err := json.NewDecoder(r).Decode(&project); err != nil {
		return nil, fmt.Errorf("libworld: decode ldtk project: %w", err)
	}
	return &project, nil
}

func ReadFile(filePath string) (*Project, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file)
}

// LayerDefinition returns the layer definition with the given uid.
func (p *Project) LayerDefinition(uid int) (*LayerDefinition, bool) {
	for i := range p.Defs.Layers {
		if p.Defs.Layers[i].UID == uid {
			return &p.Defs.Layers[i], true
		}
	}
	return nil, false
}
