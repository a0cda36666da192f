// Package fonts keeps track of font families available to the host. Families
// come from configuration and from scanning font directories.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/image/font/sfnt"

	"cssfig/config"
	"cssfig/textstyle"
)

// ErrFontUnavailable is returned by LoadFont when requested family or style
// is not known.
var ErrFontUnavailable = errors.New("font is not available")

type family struct {
	name   string
	any    bool              // every style is available
	styles map[string]string // normalized -> original
}

// Catalog is a set of available font families and their styles.
type Catalog struct {
	log      *zap.Logger
	families map[string]*family
}

// NewCatalog creates catalog from configuration. Configured families are added
// first, then configured directories are scanned.
func NewCatalog(cfg *config.FontsConfig, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{
		log:      log.Named("fonts"),
		families: make(map[string]*family),
	}
	if cfg == nil {
		return c, nil
	}
	for _, f := range cfg.Available {
		c.Add(f.Family, f.Styles...)
	}
	for _, dir := range cfg.Directories {
		if err := c.ScanDir(dir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// key normalizes family and style names: case and spaces are ignored.
func key(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// Add registers family. Without styles every style of the family is
// considered available.
func (c *Catalog) Add(name string, styles ...string) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return
	}
	k := key(name)
	f, ok := c.families[k]
	if !ok {
		f = &family{name: name, styles: make(map[string]string)}
		c.families[k] = f
	}
	if len(styles) == 0 {
		f.any = true
	}
	for _, s := range styles {
		if s = strings.TrimSpace(s); len(s) > 0 {
			f.styles[key(s)] = s
		}
	}
}

// LoadFont implements textstyle.FontLoader.
func (c *Catalog) LoadFont(ctx context.Context, font textstyle.FontName) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, ok := c.families[key(font.Family)]
	if !ok {
		return fmt.Errorf("family %q: %w", font.Family, ErrFontUnavailable)
	}
	if f.any {
		return nil
	}
	if _, ok := f.styles[key(font.Style)]; !ok {
		return fmt.Errorf("family %q style %q: %w", font.Family, font.Style, ErrFontUnavailable)
	}
	return nil
}

// Families returns names of known families in natural order.
func (c *Catalog) Families() []string {
	names := make([]string, 0, len(c.families))
	for _, f := range c.families {
		names = append(names, f.name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Styles returns explicitly known styles of the family in natural order. For
// families registered without styles result is nil and ok is true.
func (c *Catalog) Styles(name string) (styles []string, ok bool) {
	f, ok := c.families[key(name)]
	if !ok || f.any {
		return nil, ok
	}
	for _, s := range f.styles {
		styles = append(styles, s)
	}
	sort.Sort(natural.StringSlice(styles))
	return styles, true
}

// ScanDir walks directory recursively and registers every TrueType or
// OpenType font it finds. Files which are not fonts are ignored, broken fonts
// are logged and skipped.
func (c *Catalog) ScanDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("unable to scan font directory: %w", err)
		}
		if d.IsDir() {
			return nil
		}
		if err := c.addFile(path); err != nil {
			c.log.Warn("Skipping font file", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
}

func (c *Catalog) addFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fonts []*sfnt.Font
	switch {
	case len(data) >= 4 && string(data[:4]) == "ttcf":
		coll, err := sfnt.ParseCollection(data)
		if err != nil {
			return err
		}
		for i := range coll.NumFonts() {
			f, err := coll.Font(i)
			if err != nil {
				return err
			}
			fonts = append(fonts, f)
		}
	case isFontFile(data):
		f, err := sfnt.Parse(data)
		if err != nil {
			return err
		}
		fonts = append(fonts, f)
	default:
		return nil
	}

	var buf sfnt.Buffer
	for _, f := range fonts {
		name := fontName(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		style := fontName(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
		if len(name) == 0 {
			return errors.New("font has no family name")
		}
		if len(style) == 0 {
			style = textstyle.DefaultWeight
		}
		c.log.Debug("Font found", zap.String("file", path), zap.String("family", name), zap.String("style", style))
		c.Add(name, style)
	}
	return nil
}

func isFontFile(data []byte) bool {
	kind, err := filetype.Match(data)
	if err != nil {
		return false
	}
	return kind.Extension == "ttf" || kind.Extension == "otf"
}

// fontName returns first non empty name from the font name table.
func fontName(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && len(strings.TrimSpace(s)) > 0 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
