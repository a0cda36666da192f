package sink

import (
	"github.com/google/uuid"

	"cssfig/paint"
	"cssfig/textstyle"
)

// Memory collects styles in memory in order of creation.
type Memory struct {
	Paints []PaintStyle
	Texts  []TextStyle
}

// NewMemory returns empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CreatePaintStyle(name string, color paint.Color) error {
	ps := NewPaintStyle(name, color)
	ps.ID = uuid.NewString()
	m.Paints = append(m.Paints, ps)
	return nil
}

func (m *Memory) CreateTextStyle(d textstyle.Descriptor, family string) error {
	ts := NewTextStyle(d, family)
	ts.ID = uuid.NewString()
	m.Texts = append(m.Texts, ts)
	return nil
}

// Exists implements NameChecker.
func (m *Memory) Exists(kind Kind, name string) bool {
	switch kind {
	case KindPaint:
		for _, p := range m.Paints {
			if p.Name == name {
				return true
			}
		}
	case KindText:
		for _, t := range m.Texts {
			if t.Name == name {
				return true
			}
		}
	}
	return false
}

// Empty returns true when nothing was collected.
func (m *Memory) Empty() bool {
	return len(m.Paints) == 0 && len(m.Texts) == 0
}

// Tee sends every style to all sinks in order, stopping on first error.
type Tee []Sink

func (t Tee) CreatePaintStyle(name string, color paint.Color) error {
	for _, s := range t {
		if err := s.CreatePaintStyle(name, color); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) CreateTextStyle(d textstyle.Descriptor, family string) error {
	for _, s := range t {
		if err := s.CreateTextStyle(d, family); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports true if any sink which is also NameChecker has the style.
func (t Tee) Exists(kind Kind, name string) bool {
	for _, s := range t {
		if nc, ok := s.(NameChecker); ok && nc.Exists(kind, name) {
			return true
		}
	}
	return false
}
