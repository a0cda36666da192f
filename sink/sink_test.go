package sink

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"cssfig/common"
	"cssfig/paint"
	"cssfig/textstyle"
)

func ptr[T any](v T) *T {
	return &v
}

func TestKey(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want string
	}{
		{KindPaint, "Primary / 500", "paint-primary-500"},
		{KindText, "Heading / 1", "text-heading-1"},
		{KindText, "Body Large", "text-body-large"},
	}
	for _, tt := range tests {
		if got := Key(tt.kind, tt.name); got != tt.want {
			t.Errorf("Key(%v, %q) = %q, want %q", tt.kind, tt.name, got, tt.want)
		}
	}
	if got := Kind(5).String(); got != "Kind(5)" {
		t.Errorf("Kind(5).String() = %q", got)
	}
}

func TestNewTextStyle(t *testing.T) {
	tests := []struct {
		name   string
		d      textstyle.Descriptor
		family string
		want   TextStyle
	}{
		{
			name:   "full",
			d:      textstyle.Descriptor{Name: "Heading / 1", FontStyle: ptr("Bold"), FontSizePt: ptr(24.0), LineHeight: &textstyle.LineHeight{Mode: textstyle.LineHeightPixels, Value: 32}, LetterSpacingPercent: ptr(-1.0)},
			family: "Roboto",
			want: TextStyle{
				Key: "text-heading-1", Name: "Heading / 1", FontFamily: "Roboto", FontStyle: "Bold",
				FontSize: ptr(24.0), LineHeight: &LineHeight{Unit: "PIXELS", Value: 32}, LetterSpacingPercent: ptr(-1.0),
			},
		},
		{
			name:   "zero size and auto line height",
			d:      textstyle.Descriptor{Name: "Caption", FontSizePt: ptr(0.0), LineHeight: &textstyle.LineHeight{Mode: textstyle.LineHeightAuto}},
			family: "Inter",
			want:   TextStyle{Key: "text-caption", Name: "Caption", FontFamily: "Inter", FontStyle: "Regular", LineHeight: &LineHeight{Unit: "AUTO"}},
		},
		{
			name:   "untitled",
			d:      textstyle.Descriptor{},
			family: "Inter",
			want:   TextStyle{Key: "text-untitled-style", Name: textstyle.UntitledName, FontFamily: "Inter", FontStyle: "Regular"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NewTextStyle(tt.d, tt.family)); diff != "" {
				t.Errorf("NewTextStyle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	if !m.Empty() {
		t.Error("new sink is not empty")
	}

	if err := m.CreatePaintStyle("Primary / 500", paint.Color{R: 1, G: 0, B: 0, Opacity: ptr(0.5)}); err != nil {
		t.Fatal(err)
	}
	if err := m.CreateTextStyle(textstyle.Descriptor{Name: "Body"}, "Inter"); err != nil {
		t.Fatal(err)
	}

	if len(m.Paints) != 1 || len(m.Texts) != 1 {
		t.Fatalf("unexpected styles: %+v", m)
	}
	if _, err := uuid.Parse(m.Paints[0].ID); err != nil {
		t.Errorf("paint style ID %q is not uuid: %v", m.Paints[0].ID, err)
	}
	if m.Paints[0].Hex != "#ff0000" || *m.Paints[0].Opacity != 0.5 {
		t.Errorf("unexpected paint style: %+v", m.Paints[0])
	}
	if got := m.Paints[0].Color(); got.R != 1 || got.Alpha() != 0.5 {
		t.Errorf("Color() = %+v", got)
	}
	if !m.Exists(KindPaint, "Primary / 500") || !m.Exists(KindText, "Body") {
		t.Error("Exists() did not find created styles")
	}
	if m.Exists(KindText, "Primary / 500") || m.Exists(KindPaint, "Body") {
		t.Error("Exists() must not mix kinds")
	}
}

type failingSink struct{}

var errFailing = errors.New("failing")

func (failingSink) CreatePaintStyle(string, paint.Color) error {
	return errFailing
}

func (failingSink) CreateTextStyle(textstyle.Descriptor, string) error {
	return errFailing
}

func TestTee(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	tee := Tee{a, b}
	if err := tee.CreatePaintStyle("A", paint.Color{}); err != nil {
		t.Fatal(err)
	}
	if err := tee.CreateTextStyle(textstyle.Descriptor{Name: "T"}, "Inter"); err != nil {
		t.Fatal(err)
	}
	if len(a.Paints) != 1 || len(b.Paints) != 1 || len(a.Texts) != 1 || len(b.Texts) != 1 {
		t.Errorf("styles were not sent to all sinks: %+v %+v", a, b)
	}
	if !tee.Exists(KindPaint, "A") || tee.Exists(KindPaint, "B") {
		t.Error("Tee.Exists() unexpected result")
	}

	c := NewMemory()
	broken := Tee{failingSink{}, c}
	if err := broken.CreatePaintStyle("A", paint.Color{}); !errors.Is(err, errFailing) {
		t.Errorf("CreatePaintStyle() error = %v", err)
	}
	if err := broken.CreateTextStyle(textstyle.Descriptor{}, "Inter"); !errors.Is(err, errFailing) {
		t.Errorf("CreateTextStyle() error = %v", err)
	}
	if !c.Empty() {
		t.Error("sink after failing one must not be called")
	}
}

func sampleMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	for _, name := range []string{"Gray / 10", "Gray / 2", "Blue"} {
		if err := m.CreatePaintStyle(name, paint.Color{R: 0, G: 0, B: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.CreateTextStyle(textstyle.Descriptor{Name: "Heading / 1", FontSizePt: ptr(24.0), LineHeight: &textstyle.LineHeight{Mode: textstyle.LineHeightAuto}}, "Inter"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewDocument_NaturalOrder(t *testing.T) {
	doc := NewDocument("colors.css", sampleMemory(t))
	var names []string
	for _, p := range doc.Paints {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Blue", "Gray / 2", "Gray / 10"}, names); diff != "" {
		t.Errorf("paint order mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_WriteYAML(t *testing.T) {
	doc := NewDocument("colors.css", sampleMemory(t))

	var buf bytes.Buffer
	if err := doc.Write(&buf, common.OutputFmtYaml); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var restored Document
	if err := yaml.Unmarshal(buf.Bytes(), &restored); err != nil {
		t.Fatalf("produced yaml is invalid: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(*doc, restored, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("yaml document mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_WriteXML(t *testing.T) {
	doc := NewDocument("colors.css", sampleMemory(t))

	var buf bytes.Buffer
	if err := doc.Write(&buf, common.OutputFmtXml); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	parsed := etree.NewDocument()
	if err := parsed.ReadFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("produced xml is invalid: %v", err)
	}
	root := parsed.SelectElement("styles")
	if root == nil || root.SelectAttrValue("source", "") != "colors.css" {
		t.Fatalf("unexpected root element:\n%s", buf.String())
	}
	paints := root.FindElements("paints/paint")
	if len(paints) != 3 || paints[0].SelectAttrValue("name", "") != "Blue" {
		t.Errorf("unexpected paints:\n%s", buf.String())
	}
	if paints[0].SelectAttrValue("hex", "") != "#0000ff" {
		t.Errorf("hex = %q", paints[0].SelectAttrValue("hex", ""))
	}
	text := root.FindElement("texts/text")
	if text == nil || text.FindElement("font").SelectAttrValue("size", "") != "24" {
		t.Errorf("unexpected text style:\n%s", buf.String())
	}
	if lh := text.FindElement("line-height"); lh == nil || lh.SelectAttr("value") != nil {
		t.Errorf("auto line height must not carry value:\n%s", buf.String())
	}
}

func TestDocument_WriteUnknownFormat(t *testing.T) {
	doc := NewDocument("", NewMemory())
	if err := doc.Write(&bytes.Buffer{}, common.OutputFmt(42)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.db")
	lib, err := OpenLibrary(path)
	if err != nil {
		t.Fatalf("OpenLibrary() error = %v", err)
	}

	if lib.Exists(KindPaint, "Primary") {
		t.Error("empty library reports existing style")
	}
	if err := lib.CreatePaintStyle("Primary", paint.Color{R: 1, G: 1, B: 1}); err != nil {
		t.Fatalf("CreatePaintStyle() error = %v", err)
	}
	first, err := lib.PaintStyle("Primary")
	if err != nil || first == nil {
		t.Fatalf("PaintStyle() = %v, %v", first, err)
	}
	if first.Opacity != nil || first.Hex != "#ffffff" {
		t.Errorf("unexpected stored paint style: %+v", first)
	}

	// replacing keeps identity
	if err := lib.CreatePaintStyle("Primary", paint.Color{R: 0, G: 0, B: 0, Opacity: ptr(0.25)}); err != nil {
		t.Fatalf("CreatePaintStyle() error = %v", err)
	}
	second, err := lib.PaintStyle("Primary")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.Hex != "#000000" || second.Opacity == nil || *second.Opacity != 0.25 {
		t.Errorf("unexpected replaced paint style: %+v (was %+v)", second, first)
	}

	for _, name := range []string{"Body / 10", "Body / 2"} {
		if err := lib.CreateTextStyle(textstyle.Descriptor{Name: name, LetterSpacingPercent: ptr(2.0)}, "Inter"); err != nil {
			t.Fatalf("CreateTextStyle() error = %v", err)
		}
	}
	if !lib.Exists(KindText, "Body / 2") || lib.Exists(KindPaint, "Body / 2") {
		t.Error("Exists() unexpected result for text style")
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}

	// reopen to make sure data persisted
	lib, err = OpenLibrary(path)
	if err != nil {
		t.Fatal(err)
	}
	defer lib.Close()

	names, err := lib.Names(KindText)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Body / 2", "Body / 10"}, names); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if missing, err := lib.PaintStyle("Missing"); err != nil || missing != nil {
		t.Errorf("PaintStyle(Missing) = %v, %v", missing, err)
	}
	if !strings.HasSuffix(lib.Path(), "styles.db") {
		t.Errorf("Path() = %q", lib.Path())
	}
}
