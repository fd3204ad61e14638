package layer_test

import (
	"testing"

	"github.com/eak1mov/go-libworld/layer"
	"github.com/eak1mov/go-libworld/ldtk"
	"github.com/stretchr/testify/require"
)

func TestClassifyDefault(t *testing.T) {
	c := layer.Default()
	for _, tc := range []struct {
		identifier string
		layerType  ldtk.LayerType
		want       layer.Kind
	}{
		{"Initial_Floor", ldtk.LayerTiles, layer.Floor},
		{"Floor_Brick", ldtk.LayerTiles, layer.Floor},
		{"Carpet_Blue", ldtk.LayerTiles, layer.Floor},
		{"Carpet_Red", ldtk.LayerAutoLayer, layer.Floor},
		{"Carpet_Green", ldtk.LayerTiles, layer.Floor},
		{"Floor", ldtk.LayerIntGrid, layer.Floor},
		{"Wall", ldtk.LayerTiles, layer.Wall},
		{"Wall_Outer", ldtk.LayerTiles, layer.Wall},
		{"Roof_Stone", ldtk.LayerTiles, layer.Roof},
		{"Roof_Wood", ldtk.LayerTiles, layer.Roof},
		{"Roofline", ldtk.LayerTiles, layer.Roof},
		{"Light", ldtk.LayerEntities, layer.Light},
		{"Spawn", ldtk.LayerEntities, layer.Spawn},

		{"Light", ldtk.LayerTiles, layer.Ignored},
		{"Lights", ldtk.LayerEntities, layer.Ignored},
		{"Wall", ldtk.LayerEntities, layer.Ignored},
		{"Floor_Brick", ldtk.LayerEntities, layer.Ignored},
		{"Guides", ldtk.LayerTiles, layer.Ignored},
		{"floor", ldtk.LayerTiles, layer.Ignored},
		{"", ldtk.LayerTiles, layer.Ignored},
		{"Wall", "Unknown", layer.Ignored},
	} {
		if got := c.Classify(tc.identifier, tc.layerType); got != tc.want {
			t.Errorf("Classify(%q, %v) = %v, want = %v", tc.identifier, tc.layerType, got, tc.want)
		}
	}
}

func TestClassifyLongestPrefix(t *testing.T) {
	c := layer.NewClassifier(
		layer.Rule{Name: "Roof", Match: layer.Prefix, Kind: layer.Roof},
		layer.Rule{Name: "RoofFloor", Match: layer.Prefix, Kind: layer.Floor},
		layer.Rule{Name: "R", Match: layer.Prefix, Kind: layer.Wall},
	)
	for identifier, want := range map[string]layer.Kind{
		"RoofFloor_1": layer.Floor,
		"Roof_1":      layer.Roof,
		"Rug":         layer.Wall,
		"Floor":       layer.Ignored,
	} {
		if got := c.Classify(identifier, ldtk.LayerTiles); got != want {
			t.Errorf("Classify(%q) = %v, want = %v", identifier, got, want)
		}
	}
}

func TestClassifyOverride(t *testing.T) {
	rules := append([]layer.Rule{}, layer.DefaultRules...)
	rules = append(rules,
		layer.Rule{Name: "Wall", Kind: layer.Ignored},
		layer.Rule{Name: "Lamps", Kind: layer.Light, Entity: true},
		layer.Rule{Name: "Floor", Match: layer.Prefix, Kind: layer.Roof},
	)
	c := layer.NewClassifier(rules...)

	require.Equal(t, layer.Ignored, c.Classify("Wall", ldtk.LayerTiles))
	require.Equal(t, layer.Wall, c.Classify("Wall_Outer", ldtk.LayerTiles))
	require.Equal(t, layer.Light, c.Classify("Lamps", ldtk.LayerEntities))
	require.Equal(t, layer.Roof, c.Classify("Floor_Stone", ldtk.LayerTiles))
	require.Equal(t, layer.Floor, c.Classify("Floor_Brick", ldtk.LayerTiles))
}

func TestParseKind(t *testing.T) {
	for _, kind := range []layer.Kind{layer.Ignored, layer.Floor, layer.Wall, layer.Roof, layer.Light, layer.Spawn} {
		got, err := layer.ParseKind(kind.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", kind, err)
		}
		if got != kind {
			t.Errorf("ParseKind(%q) = %v, want = %v", kind, got, kind)
		}
	}
	got, err := layer.ParseKind("WALL")
	require.NoError(t, err)
	require.Equal(t, layer.Wall, got)

	_, err = layer.ParseKind("ceiling")
	require.Error(t, err)
}

func TestParseMatch(t *testing.T) {
	for s, want := range map[string]layer.Match{"": layer.Exact, "exact": layer.Exact, "Prefix": layer.Prefix} {
		got, err := layer.ParseMatch(s)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := layer.ParseMatch("suffix")
	require.Error(t, err)
}
