package ldtk

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldColor FieldType = "Color"
	FieldInt   FieldType = "Int"
	FieldFloat FieldType = "Float"
	FieldBool  FieldType = "Bool"
)

var (
	ErrInvalidField = errors.New("libworld: invalid field value")
	ErrNullField    = errors.New("libworld: null field value")
)

type FieldInstance struct {
	Identifier string          `json:"__identifier"`
	Type       FieldType       `json:"__type"`
	Value      json.RawMessage `json:"__value"`
}

// FieldValue is one of Color, Int, Float or Bool.
type FieldValue interface {
	fieldType() FieldType
}

type Color struct{ R, G, B uint8 }
type Int int64
type Float float64
type Bool bool

func (Color) fieldType() FieldType { return FieldColor }
func (Int) fieldType() FieldType   { return FieldInt }
func (Float) fieldType() FieldType { return FieldFloat }
func (Bool) fieldType() FieldType  { return FieldBool }

// ParseColor parses "#RRGGBB".
func ParseColor(s string) (Color, error) {
	digits, ok := strings.CutPrefix(s, "#")
	if !ok || len(digits) != 6 {
		return Color{}, fmt.Errorf("%w: color %q", ErrInvalidField, s)
	}
	rgb, err := hex.DecodeString(digits)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q: %w", ErrInvalidField, s, err)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Decode returns the typed value of the field.
func (f *FieldInstance) Decode() (FieldValue, error) {
	if len(f.Value) == 0 || bytes.Equal(bytes.TrimSpace(f.Value), []byte("null")) {
		return nil, fmt.Errorf("%w: %q", ErrNullField, f.Identifier)
	}
	wrap := func(err error) error {
		return fmt.Errorf("%w: %q (%v): %w", ErrInvalidField, f.Identifier, f.Type, err)
	}
	switch f.Type {
	case FieldColor:
		var s string
		if err := json.Unmarshal(f.Value, &s); err != nil {
			return nil, wrap(err)
		}
		c, err := ParseColor(s)
		if err != nil {
			return nil, wrap(err)
		}
		return c, nil
	case FieldInt:
		var v int64
		if err := json.Unmarshal(f.Value, &v); err != nil {
			return nil, wrap(err)
		}
		return Int(v), nil
	case FieldFloat:
		var v float64
		if err := json.Unmarshal(f.Value, &v); err != nil {
			return nil, wrap(err)
		}
		return Float(v), nil
	case FieldBool:
		var v bool
		if err := json.Unmarshal(f.Value, &v); err != nil {
			return nil, wrap(err)
		}
		return Bool(v), nil
	}
	return nil, fmt.Errorf("%w: %q has unsupported type %q", ErrInvalidField, f.Identifier, f.Type)
}

// NewField builds a field instance holding v, for importers and tests.
func NewField(identifier string, v FieldValue) FieldInstance {
	var raw []byte
	switch v := v.(type) {
	case Color:
		raw, _ = json.Marshal(v.String())
	default:
		raw, _ = json.Marshal(v)
	}
	return FieldInstance{Identifier: identifier, Type: v.fieldType(), Value: raw}
}
