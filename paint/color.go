// Package paint converts CSS color literals into normalized colors used by
// paint styles.
package paint

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when color literal does not match any
	// of recognized grammars.
	ErrUnsupportedFormat = errors.New("unsupported color format")
	// ErrInvalidHexFormat is returned by hex decoder for malformed input.
	ErrInvalidHexFormat = errors.New("invalid hex color format")
)

// Color is normalized color: channels are in [0,1]. Opacity is only set for
// formats which carry alpha.
type Color struct {
	R, G, B float64
	Opacity *float64
}

// HasOpacity returns true if source format supplied alpha.
func (c Color) HasOpacity() bool {
	return c.Opacity != nil
}

// Alpha returns opacity or 1 when it was not set.
func (c Color) Alpha() float64 {
	if c.Opacity == nil {
		return 1
	}
	return *c.Opacity
}

// Hex returns "#rrggbb" representation, opacity is ignored.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", toByte(c.R), toByte(c.G), toByte(c.B))
}

func toByte(v float64) int {
	return int(math.Round(clamp(v) * 255))
}

// grammars in order of priority
var (
	hexPattern  = regexp.MustCompile(`(?i)^#([0-9a-f]{3}|[0-9a-f]{6})$`)
	rgbaPattern = regexp.MustCompile(`(?i)^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*((?:\d*\.)?\d+)\s*)?\)$`)
	rgbPattern  = regexp.MustCompile(`(?i)^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
	hslaPattern = regexp.MustCompile(`(?i)^hsla\(\s*(\d+)\s*,\s*(\d+(?:\.\d+)?)%\s*,\s*(\d+(?:\.\d+)?)%\s*(?:,\s*((?:\d*\.)?\d+)\s*)?\)$`)
	hslPattern  = regexp.MustCompile(`(?i)^hsl\(\s*(\d+)\s*,\s*(\d+(?:\.\d+)?)%\s*,\s*(\d+(?:\.\d+)?)%\s*\);?$`)
)

// Normalize converts CSS color literal (hex, rgba, rgb, hsla or hsl) to
// normalized color.
func Normalize(value string) (Color, error) {
	value = strings.TrimSpace(value)

	if hexPattern.MatchString(value) {
		r, g, b, err := HexToRGB(value)
		if err != nil {
			return Color{}, err
		}
		return Color{R: r, G: g, B: b}, nil
	}

	if m := rgbaPattern.FindStringSubmatch(value); m != nil {
		c := Color{R: channel(m[1]), G: channel(m[2]), B: channel(m[3])}
		c.Opacity = alpha(m[4])
		return c, nil
	}

	if m := rgbPattern.FindStringSubmatch(value); m != nil {
		return Color{R: channel(m[1]), G: channel(m[2]), B: channel(m[3])}, nil
	}

	if m := hslaPattern.FindStringSubmatch(value); m != nil {
		r, g, b := HSLToRGB(hue(m[1]), percent(m[2]), percent(m[3]))
		return Color{R: r, G: g, B: b, Opacity: alpha(m[4])}, nil
	}

	if m := hslPattern.FindStringSubmatch(value); m != nil {
		r, g, b := HSLToRGB(hue(m[1]), percent(m[2]), percent(m[3]))
		return Color{R: r, G: g, B: b}, nil
	}

	return Color{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, value)
}

// HexToRGB decodes "#rgb" or "#rrggbb" into normalized channels. Three digit
// form is expanded by doubling every digit.
func HexToRGB(hex string) (r, g, b float64, err error) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidHexFormat, hex)
	}

	digits := m[1]
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}

	var ch [3]float64
	for i := range ch {
		v, err := strconv.ParseUint(digits[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %s", ErrInvalidHexFormat, hex)
		}
		ch[i] = float64(v) / 255
	}
	return ch[0], ch[1], ch[2], nil
}

// HSLToRGB converts hue, saturation and lightness (all in [0,1]) to RGB.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		// achromatic
		return l, l, l
	}

	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q

	return hueToChannel(p, q, h+1.0/3), hueToChannel(p, q, h), hueToChannel(p, q, h-1.0/3)
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// channel converts decimal integer in [0,255] range.
func channel(s string) float64 {
	v, _ := strconv.Atoi(s) // pattern guarantees digits
	return clamp(float64(v) / 255)
}

// hue converts degrees to [0,1) turning full circles.
func hue(s string) float64 {
	v, _ := strconv.Atoi(s)
	return math.Mod(float64(v), 360) / 360
}

// percent keeps fractional part, "50.5%" is 0.505 rather than truncated to
// 0.5.
func percent(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return clamp(v / 100)
}

// alpha returns opacity for alpha-bearing formats, absent alpha means fully
// opaque.
func alpha(s string) *float64 {
	v := 1.0
	if len(s) > 0 {
		v, _ = strconv.ParseFloat(s, 64)
	}
	v = clamp(v)
	return &v
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
