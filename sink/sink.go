// Package sink defines where produced styles go and provides several
// implementations: in-memory collection, YAML and XML documents and
// persistent SQLite style library.
package sink

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"cssfig/paint"
	"cssfig/textstyle"
)

// Kind is kind of style.
type Kind int

const (
	KindPaint Kind = iota
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPaint:
		return "paint"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sink receives styles, once per variable or category in extraction order.
type Sink interface {
	CreatePaintStyle(name string, color paint.Color) error
	CreateTextStyle(d textstyle.Descriptor, family string) error
}

// NameChecker reports whether style with the given name already exists.
type NameChecker interface {
	Exists(kind Kind, name string) bool
}

// PaintStyle is paint style as it is recorded by sinks.
type PaintStyle struct {
	ID      string   `yaml:"id"`
	Key     string   `yaml:"key"`
	Name    string   `yaml:"name"`
	Hex     string   `yaml:"hex"`
	R       float64  `yaml:"r"`
	G       float64  `yaml:"g"`
	B       float64  `yaml:"b"`
	Opacity *float64 `yaml:"opacity,omitempty"`
}

// Color restores normalized color.
func (p PaintStyle) Color() paint.Color {
	return paint.Color{R: p.R, G: p.G, B: p.B, Opacity: p.Opacity}
}

// LineHeight is line height as it is recorded by sinks.
type LineHeight struct {
	Unit  string  `yaml:"unit"`
	Value float64 `yaml:"value,omitempty"`
}

// TextStyle is text style as it is recorded by sinks.
type TextStyle struct {
	ID                   string      `yaml:"id"`
	Key                  string      `yaml:"key"`
	Name                 string      `yaml:"name"`
	FontFamily           string      `yaml:"font_family"`
	FontStyle            string      `yaml:"font_style"`
	FontSize             *float64    `yaml:"font_size,omitempty"`
	LineHeight           *LineHeight `yaml:"line_height,omitempty"`
	LetterSpacingPercent *float64    `yaml:"letter_spacing_percent,omitempty"`
}

// NewPaintStyle builds paint style record, ID is left to the caller.
func NewPaintStyle(name string, color paint.Color) PaintStyle {
	return PaintStyle{
		Key:     Key(KindPaint, name),
		Name:    name,
		Hex:     color.Hex(),
		R:       color.R,
		G:       color.G,
		B:       color.B,
		Opacity: color.Opacity,
	}
}

// NewTextStyle builds text style record from descriptor and resolved family.
// Zero font size is treated as absent.
func NewTextStyle(d textstyle.Descriptor, family string) TextStyle {
	ts := TextStyle{
		Name:                 d.DisplayName(),
		FontFamily:           family,
		FontStyle:            d.Weight(),
		LetterSpacingPercent: d.LetterSpacingPercent,
	}
	ts.Key = Key(KindText, ts.Name)
	if d.FontSizePt != nil && *d.FontSizePt != 0 {
		ts.FontSize = d.FontSizePt
	}
	if d.LineHeight != nil {
		ts.LineHeight = &LineHeight{Unit: d.LineHeight.Mode.String()}
		if d.LineHeight.Mode == textstyle.LineHeightPixels {
			ts.LineHeight.Value = d.LineHeight.Value
		}
	}
	return ts
}

// Key returns stable style key derived from kind and name: "Heading / 1"
// text style becomes "text-heading-1".
func Key(kind Kind, name string) string {
	return kind.String() + "-" + slug.Make(strings.ReplaceAll(name, "/", " "))
}
