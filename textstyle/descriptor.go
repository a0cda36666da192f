// Package textstyle turns category blocks into text style descriptors and
// decides which font family a text style ends up using.
package textstyle

import (
	"fmt"
	"strings"
)

const (
	// DefaultWeight is font style used whenever weight was not specified or
	// is not known.
	DefaultWeight = "Regular"
	// UntitledName is used by sinks for descriptors without name.
	UntitledName = "Untitled Style"
)

// LineHeightMode specifies how line height value should be interpreted.
type LineHeightMode int

const (
	LineHeightAuto LineHeightMode = iota
	LineHeightPixels
)

func (m LineHeightMode) String() string {
	switch m {
	case LineHeightAuto:
		return "AUTO"
	case LineHeightPixels:
		return "PIXELS"
	default:
		return fmt.Sprintf("LineHeightMode(%d)", int(m))
	}
}

// LineHeight of text style, Value is only meaningful in pixels mode.
type LineHeight struct {
	Mode  LineHeightMode
	Value float64
}

// Descriptor is typed text style built from a single category block. Nil
// fields were not specified by the source.
type Descriptor struct {
	Name                 string
	FontFamily           *string // as written, may be comma separated fallback list
	FontStyle            *string // weight name, see WeightName
	FontSizePt           *float64
	LineHeight           *LineHeight
	LetterSpacingPercent *float64
}

// Weight returns font style to use for this descriptor.
func (d Descriptor) Weight() string {
	if d.FontStyle == nil || len(*d.FontStyle) == 0 {
		return DefaultWeight
	}
	return *d.FontStyle
}

// Families returns font family fallback list in order of preference. Entries
// are trimmed and may be quoted, empty entries are dropped.
func (d Descriptor) Families() []string {
	if d.FontFamily == nil {
		return nil
	}
	var families []string
	for f := range strings.SplitSeq(*d.FontFamily, ",") {
		f = strings.TrimSpace(f)
		if len(f) > 0 && (f[0] == '"' || f[0] == '\'') {
			f = f[1:]
		}
		if len(f) > 0 && (f[len(f)-1] == '"' || f[len(f)-1] == '\'') {
			f = f[:len(f)-1]
		}
		if len(f) > 0 {
			families = append(families, f)
		}
	}
	return families
}

// DisplayName returns descriptor name or UntitledName if it is empty.
func (d Descriptor) DisplayName() string {
	if len(d.Name) == 0 {
		return UntitledName
	}
	return d.Name
}
