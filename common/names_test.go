package common

import "testing"

func TestTitleWords(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"heading 1", "Heading 1"},
		{"brand color", "Brand Color"},
		{"gray /a100", "Gray /A100"},
		{"already Upper", "Already Upper"},
		{"mIxed case", "MIxed Case"},
		{"#title", "#Title"},
		{"snake_case word", "Snake_case Word"},
		{"über", "üBer"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TitleWords(tt.in); got != tt.want {
				t.Errorf("TitleWords(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOutputFmt(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFmt
		wantErr bool
	}{
		{"yaml", OutputFmtYaml, false},
		{"XML", OutputFmtXml, false},
		{" xml ", OutputFmtXml, false},
		{"json", OutputFmtYaml, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFmt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFmt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFmt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputFmt_Ext(t *testing.T) {
	if OutputFmtYaml.Ext() != ".yaml" {
		t.Errorf("yaml ext = %s", OutputFmtYaml.Ext())
	}
	if OutputFmtXml.Ext() != ".xml" {
		t.Errorf("xml ext = %s", OutputFmtXml.Ext())
	}
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for invalid format")
		}
	}()
	OutputFmt(42).Ext()
}
