package sink

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"cssfig/paint"
	"cssfig/textstyle"
)

const librarySchema = `
CREATE TABLE IF NOT EXISTS paint_styles (
	name    TEXT PRIMARY KEY,
	id      TEXT NOT NULL,
	key     TEXT NOT NULL,
	hex     TEXT NOT NULL,
	r       REAL NOT NULL,
	g       REAL NOT NULL,
	b       REAL NOT NULL,
	opacity REAL,
	updated TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS text_styles (
	name             TEXT PRIMARY KEY,
	id               TEXT NOT NULL,
	key              TEXT NOT NULL,
	font_family      TEXT NOT NULL,
	font_style       TEXT NOT NULL,
	font_size        REAL,
	line_height_unit TEXT,
	line_height      REAL,
	letter_spacing   REAL,
	updated          TEXT NOT NULL
);
`

// Library is persistent style library kept in SQLite database. Styles are
// keyed by name, creating style with existing name replaces it but keeps its
// ID.
// NOTE: not to be used concurrently.
type Library struct {
	conn *sqlite.Conn
	path string
}

// OpenLibrary opens or creates library database.
func OpenLibrary(path string) (*Library, error) {
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open style library %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, librarySchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare style library %s: %w", path, err)
	}
	return &Library{conn: conn, path: path}, nil
}

func (l *Library) Path() string {
	return l.path
}

func (l *Library) Close() error {
	return l.conn.Close()
}

func (l *Library) CreatePaintStyle(name string, color paint.Color) error {
	ps := NewPaintStyle(name, color)
	var opacity any
	if ps.Opacity != nil {
		opacity = *ps.Opacity
	}
	err := sqlitex.Execute(l.conn, `
INSERT INTO paint_styles (name, id, key, hex, r, g, b, opacity, updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	key = excluded.key, hex = excluded.hex, r = excluded.r, g = excluded.g,
	b = excluded.b, opacity = excluded.opacity, updated = excluded.updated`,
		&sqlitex.ExecOptions{Args: []any{ps.Name, uuid.NewString(), ps.Key, ps.Hex, ps.R, ps.G, ps.B, opacity, now()}})
	if err != nil {
		return fmt.Errorf("unable to store paint style %q: %w", name, err)
	}
	return nil
}

func (l *Library) CreateTextStyle(d textstyle.Descriptor, family string) error {
	ts := NewTextStyle(d, family)
	var size, lhUnit, lhValue, spacing any
	if ts.FontSize != nil {
		size = *ts.FontSize
	}
	if ts.LineHeight != nil {
		lhUnit, lhValue = ts.LineHeight.Unit, ts.LineHeight.Value
	}
	if ts.LetterSpacingPercent != nil {
		spacing = *ts.LetterSpacingPercent
	}
	err := sqlitex.Execute(l.conn, `
INSERT INTO text_styles (name, id, key, font_family, font_style, font_size, line_height_unit, line_height, letter_spacing, updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	key = excluded.key, font_family = excluded.font_family, font_style = excluded.font_style,
	font_size = excluded.font_size, line_height_unit = excluded.line_height_unit,
	line_height = excluded.line_height, letter_spacing = excluded.letter_spacing,
	updated = excluded.updated`,
		&sqlitex.ExecOptions{Args: []any{ts.Name, uuid.NewString(), ts.Key, ts.FontFamily, ts.FontStyle, size, lhUnit, lhValue, spacing, now()}})
	if err != nil {
		return fmt.Errorf("unable to store text style %q: %w", ts.Name, err)
	}
	return nil
}

// Exists implements NameChecker. Database errors are treated as absence.
func (l *Library) Exists(kind Kind, name string) bool {
	var found bool
	err := sqlitex.Execute(l.conn, "SELECT 1 FROM "+table(kind)+" WHERE name = ?",
		&sqlitex.ExecOptions{
			Args: []any{name},
			ResultFunc: func(*sqlite.Stmt) error {
				found = true
				return nil
			},
		})
	return err == nil && found
}

// Names lists styles of requested kind in natural order.
func (l *Library) Names(kind Kind) ([]string, error) {
	var names []string
	err := sqlitex.Execute(l.conn, "SELECT name FROM "+table(kind),
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list %s styles: %w", kind, err)
	}
	sort.Sort(natural.StringSlice(names))
	return names, nil
}

// PaintStyle reads paint style back from the library.
func (l *Library) PaintStyle(name string) (*PaintStyle, error) {
	var ps *PaintStyle
	err := sqlitex.Execute(l.conn, "SELECT id, key, hex, r, g, b, opacity FROM paint_styles WHERE name = ?",
		&sqlitex.ExecOptions{
			Args: []any{name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ps = &PaintStyle{
					ID:   stmt.ColumnText(0),
					Key:  stmt.ColumnText(1),
					Name: name,
					Hex:  stmt.ColumnText(2),
					R:    stmt.ColumnFloat(3),
					G:    stmt.ColumnFloat(4),
					B:    stmt.ColumnFloat(5),
				}
				if stmt.ColumnType(6) != sqlite.TypeNull {
					v := stmt.ColumnFloat(6)
					ps.Opacity = &v
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read paint style %q: %w", name, err)
	}
	return ps, nil
}

func table(kind Kind) string {
	if kind == KindText {
		return "text_styles"
	}
	return "paint_styles"
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
