package paint

import (
	"testing"

	"cssfig/css"
)

func TestStyleName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"--brand-color", "Brand Color"},
		{"--gray-100", "Gray /100"},
		{"--gray-100-200", "Gray /100 200"},
		{"--brand-a50", "Brand /A50"},
		{"--primary2", "Primary/2"},
		{"--blue-A700", "Blue /A700"},
		{"--text", "Text"},
		{"no-prefix-1", "No Prefix /1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := StyleName(tt.in); got != tt.want {
				t.Errorf("StyleName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitVariable(t *testing.T) {
	tests := []struct {
		in          css.RawVariable
		name, value string
		ok          bool
	}{
		{"--brand-color: #fff", "--brand-color", "#fff", true},
		{"--a:rgb(1, 2, 3)", "--a", "rgb(1, 2, 3)", true},
		{"--img: url(http://x)", "", "", false},
		{"--nothing", "", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			name, value, ok := SplitVariable(tt.in)
			if ok != tt.ok || name != tt.name || value != tt.value {
				t.Errorf("SplitVariable(%q) = %q, %q, %v; want %q, %q, %v", tt.in, name, value, ok, tt.name, tt.value, tt.ok)
			}
		})
	}
}
