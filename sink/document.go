package sink

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	yaml "gopkg.in/yaml.v3"

	"cssfig/common"
	"cssfig/textstyle"
)

// Document is a set of styles produced from single source.
type Document struct {
	Source string       `yaml:"source,omitempty"`
	Paints []PaintStyle `yaml:"paints"`
	Texts  []TextStyle  `yaml:"texts"`
}

// NewDocument takes collected styles and orders them by name, natural order.
// Styles with the same name keep order of creation.
func NewDocument(source string, m *Memory) *Document {
	doc := &Document{
		Source: source,
		Paints: slices.Clone(m.Paints),
		Texts:  slices.Clone(m.Texts),
	}
	slices.SortStableFunc(doc.Paints, func(a, b PaintStyle) int { return naturalCmp(a.Name, b.Name) })
	slices.SortStableFunc(doc.Texts, func(a, b TextStyle) int { return naturalCmp(a.Name, b.Name) })
	return doc
}

func naturalCmp(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

// Write serializes document in requested format.
func (d *Document) Write(w io.Writer, format common.OutputFmt) error {
	switch format {
	case common.OutputFmtYaml:
		return d.WriteYAML(w)
	case common.OutputFmtXml:
		return d.WriteXML(w)
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("unable to encode styles: %w", err)
	}
	return enc.Close()
}

func (d *Document) WriteXML(w io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("styles")
	if len(d.Source) > 0 {
		root.CreateAttr("source", d.Source)
	}

	paints := root.CreateElement("paints")
	for _, p := range d.Paints {
		el := paints.CreateElement("paint")
		el.CreateAttr("id", p.ID)
		el.CreateAttr("key", p.Key)
		el.CreateAttr("name", p.Name)
		el.CreateAttr("hex", p.Hex)
		el.CreateAttr("r", formatFloat(p.R))
		el.CreateAttr("g", formatFloat(p.G))
		el.CreateAttr("b", formatFloat(p.B))
		if p.Opacity != nil {
			el.CreateAttr("opacity", formatFloat(*p.Opacity))
		}
	}

	texts := root.CreateElement("texts")
	for _, t := range d.Texts {
		el := texts.CreateElement("text")
		el.CreateAttr("id", t.ID)
		el.CreateAttr("key", t.Key)
		el.CreateAttr("name", t.Name)
		font := el.CreateElement("font")
		font.CreateAttr("family", t.FontFamily)
		font.CreateAttr("style", t.FontStyle)
		if t.FontSize != nil {
			font.CreateAttr("size", formatFloat(*t.FontSize))
		}
		if t.LineHeight != nil {
			lh := el.CreateElement("line-height")
			lh.CreateAttr("unit", t.LineHeight.Unit)
			if t.LineHeight.Unit != textstyle.LineHeightAuto.String() {
				lh.CreateAttr("value", formatFloat(t.LineHeight.Value))
			}
		}
		if t.LetterSpacingPercent != nil {
			ls := el.CreateElement("letter-spacing")
			ls.CreateAttr("unit", "PERCENT")
			ls.CreateAttr("value", formatFloat(*t.LetterSpacingPercent))
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write styles: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
