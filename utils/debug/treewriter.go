// Package debug renders parsed structures as indented text trees for manual
// inspection.
package debug

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const indent = "  "

// TreeWriter accumulates indented lines.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) prefix(depth int) {
	tw.w.WriteString(strings.Repeat(indent, max(depth, 0)))
}

// Line writes formatted line at the given depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.prefix(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Text writes labeled source text, quoted so that control characters are
// visible.
func (tw TreeWriter) Text(depth int, label, value string) {
	tw.prefix(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(quote(value))
	tw.w.WriteByte('\n')
}

// Field writes labeled value. Nil pointers are rendered as "unset" and other
// pointers are dereferenced.
func (tw TreeWriter) Field(depth int, label string, value any) {
	tw.prefix(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(render(value))
	tw.w.WriteByte('\n')
}

func render(value any) string {
	if value == nil {
		return "unset"
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "unset"
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.String:
		return quote(v.String())
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	default:
		return fmt.Sprint(v.Interface())
	}
}

func quote(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
