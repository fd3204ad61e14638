// Package layer classifies editor layers into world model buckets.
//
// The recognized layer names are data: DefaultRules lists them, and callers
// may extend the table. Unknown layers classify as Ignored.
package layer

import (
	"fmt"
	"strings"

	"github.com/eak1mov/go-libworld/ldtk"
)

type Kind uint8

const (
	Ignored Kind = iota
	Floor
	Wall
	Roof
	Light
	Spawn
)

var kindNames = [...]string{
	Ignored: "ignored",
	Floor:   "floor",
	Wall:    "wall",
	Roof:    "roof",
	Light:   "light",
	Spawn:   "spawn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return Ignored, fmt.Errorf("libworld: unknown layer kind %q", s)
}

type Match uint8

const (
	Exact Match = iota
	Prefix
)

func (m Match) String() string {
	if m == Prefix {
		return "prefix"
	}
	return "exact"
}

func ParseMatch(s string) (Match, error) {
	switch strings.ToLower(s) {
	case "", "exact":
		return Exact, nil
	case "prefix":
		return Prefix, nil
	}
	return Exact, fmt.Errorf("libworld: unknown layer match %q", s)
}

// Rule maps a layer identifier to a kind. Entity rules only apply to entity
// layers, the rest only to tile-like layers.
type Rule struct {
	Name   string
	Match  Match
	Kind   Kind
	Entity bool
}

var DefaultRules = []Rule{
	{Name: "Initial_Floor", Kind: Floor},
	{Name: "Floor_Brick", Kind: Floor},
	{Name: "Carpet_Blue", Kind: Floor},
	{Name: "Carpet_Red", Kind: Floor},
	{Name: "Wall", Kind: Wall},
	{Name: "Roof_Stone", Kind: Roof},
	{Name: "Roof_Wood", Kind: Roof},
	{Name: "Floor", Match: Prefix, Kind: Floor},
	{Name: "Carpet", Match: Prefix, Kind: Floor},
	{Name: "Wall", Match: Prefix, Kind: Wall},
	{Name: "Roof", Match: Prefix, Kind: Roof},

	{Name: "Light", Kind: Light, Entity: true},
	{Name: "Spawn", Kind: Spawn, Entity: true},
}

type ruleKey struct {
	name   string
	entity bool
}

type Classifier struct {
	exact    map[ruleKey]Kind
	prefixes []Rule
}

// NewClassifier returns a classifier over rules. Later rules override earlier
// ones with the same name and match.
func NewClassifier(rules ...Rule) *Classifier {
	c := &Classifier{exact: make(map[ruleKey]Kind)}
	for _, rule := range rules {
		if rule.Match == Exact {
			c.exact[ruleKey{rule.Name, rule.Entity}] = rule.Kind
			continue
		}
		replaced := false
		for i := range c.prefixes {
			if c.prefixes[i].Name == rule.Name && c.prefixes[i].Entity == rule.Entity {
				c.prefixes[i] = rule
				replaced = true
			}
		}
		if !replaced {
			c.prefixes = append(c.prefixes, rule)
		}
	}
	return c
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return NewClassifier(DefaultRules...)
}

// Classify returns the kind of a layer: exact matches first, then the longest
// matching prefix.
func (c *Classifier) Classify(identifier string, layerType ldtk.LayerType) Kind {
	var entity bool
	switch {
	case layerType == ldtk.LayerEntities:
		entity = true
	case layerType.HasTiles():
	default:
		return Ignored
	}

	if kind, ok := c.exact[ruleKey{identifier, entity}]; ok {
		return kind
	}

	kind, longest := Ignored, -1
	for _, rule := range c.prefixes {
		if rule.Entity != entity || len(rule.Name) <= longest {
			continue
		}
		if strings.HasPrefix(identifier, rule.Name) {
			kind, longest = rule.Kind, len(rule.Name)
		}
	}
	return kind
}
