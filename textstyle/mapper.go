package textstyle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"go.uber.org/zap"

	"cssfig/common"
	"cssfig/css"
)

// ErrInvalidCategoryFormat is returned when category text does not have
// "selector { body }" shape.
var ErrInvalidCategoryFormat = errors.New("invalid category format")

var (
	categoryPattern     = regexp.MustCompile(`^(.[^{]+)\s*\{([^}]*)\}$`)
	trailingStepPattern = regexp.MustCompile(` (\d+)$`)
)

// propertyFunc applies single declaration value to the descriptor built so
// far. It returns false when value could not be used.
type propertyFunc func(d Descriptor, value string) (Descriptor, bool)

var properties = map[string]propertyFunc{
	"font-family":    applyFontFamily,
	"font-size":      applyFontSize,
	"font-weight":    applyFontWeight,
	"line-height":    applyLineHeight,
	"letter-spacing": applyLetterSpacing,
}

// Supported returns true if property affects text style.
func Supported(property string) bool {
	_, ok := properties[property]
	return ok
}

// Mapper converts category blocks to text style descriptors.
type Mapper struct {
	log *zap.Logger
}

// NewMapper creates a new mapper.
func NewMapper(log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{log: log.Named("text-style")}
}

// MapCategory is a convenience wrapper which maps category without logging.
func MapCategory(raw css.RawCategory) (Descriptor, error) {
	return NewMapper(nil).MapCategory(raw)
}

// MapCategory builds descriptor from the category block. Declarations are
// applied in order, so for repeated properties the last one wins. Unknown
// properties are logged and ignored.
func (m *Mapper) MapCategory(raw css.RawCategory) (Descriptor, error) {
	match := categoryPattern.FindStringSubmatch(string(raw))
	if match == nil {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrInvalidCategoryFormat, raw)
	}

	d := Descriptor{Name: CategoryName(strings.TrimSpace(match[1]))}

	for decl := range strings.SplitSeq(match[2], ";") {
		decl = strings.TrimSpace(decl)
		if len(decl) == 0 {
			continue
		}
		key, value, _ := strings.Cut(decl, ":")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)

		apply, ok := properties[key]
		if !ok {
			m.log.Warn("Unknown property", zap.String("style", d.Name), zap.String("property", key))
			continue
		}
		next, ok := apply(d, value)
		if !ok {
			m.log.Warn("Unable to use property value", zap.String("style", d.Name), zap.String("property", key), zap.String("value", value))
			continue
		}
		d = next
	}

	m.log.Debug("Mapped category", zap.String("style", d.Name))
	return d, nil
}

// CategoryName converts selector to text style name: ".heading-1" becomes
// "Heading / 1". Only leading dot is removed, id selectors keep "#".
func CategoryName(selector string) string {
	name := strings.TrimPrefix(selector, ".")
	name = strings.ReplaceAll(name, "-", " ")
	name = common.TitleWords(name)
	return trailingStepPattern.ReplaceAllString(name, " / $1")
}

func applyFontFamily(d Descriptor, value string) (Descriptor, bool) {
	d.FontFamily = &value
	return d, true
}

func applyFontSize(d Descriptor, value string) (Descriptor, bool) {
	size, ok := parseFloat(value)
	if !ok {
		return d, false
	}
	d.FontSizePt = &size
	return d, true
}

func applyFontWeight(d Descriptor, value string) (Descriptor, bool) {
	style := WeightName(value)
	d.FontStyle = &style
	return d, true
}

func applyLineHeight(d Descriptor, value string) (Descriptor, bool) {
	if value == "normal" {
		d.LineHeight = &LineHeight{Mode: LineHeightAuto}
		return d, true
	}
	v, ok := parseFloat(value)
	if !ok {
		return d, false
	}
	d.LineHeight = &LineHeight{Mode: LineHeightPixels, Value: v}
	return d, true
}

func applyLetterSpacing(d Descriptor, value string) (Descriptor, bool) {
	v := 0.0
	if value != "normal" {
		var ok bool
		if v, ok = parseFloat(value); !ok {
			return d, false
		}
	}
	d.LetterSpacingPercent = &v
	return d, true
}

// parseFloat uses longest numeric prefix of the value ignoring units, so
// "24px" is 24 and "1.5em" is 1.5.
func parseFloat(value string) (float64, bool) {
	b := []byte(strings.TrimSpace(value))
	n := parse.Number(b)
	if n == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(b[:n]), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
