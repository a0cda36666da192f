package convert

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const sampleCSS = ":root {\n  --brand-color: #fff;\n}\n.heading-1 {\n  font-size: 24px;\n}\n"

func encodeWithTransformer(t *testing.T, data []byte, encoder transform.Transformer) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, encoder)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("encode sample: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("finalize encoded sample: %v", err)
	}
	return buf.Bytes()
}

func encodeSample(t *testing.T, data []byte, enc srcEncoding) []byte {
	t.Helper()
	switch enc {
	case encUnknown:
		return data
	case encUTF8:
		return append([]byte{0xEF, 0xBB, 0xBF}, data...)
	case encUTF16BigEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder())
	case encUTF16LittleEndian:
		return encodeWithTransformer(t, data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	case encUTF32BigEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder())
	case encUTF32LittleEndian:
		return encodeWithTransformer(t, data, utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder())
	}
	t.Fatalf("unsupported encoding: %v", enc)
	return nil
}

var allEncodings = []srcEncoding{
	encUnknown,
	encUTF8,
	encUTF16BigEndian,
	encUTF16LittleEndian,
	encUTF32BigEndian,
	encUTF32LittleEndian,
}

func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x00}, encUTF8},
		{"UTF-16 Big Endian BOM", []byte{0xFE, 0xFF, 0x00, 0x00}, encUTF16BigEndian},
		{"UTF-16 Little Endian BOM", []byte{0xFF, 0xFE, 0x01, 0x00}, encUTF16LittleEndian},
		{"UTF-32 Big Endian BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, encUTF32BigEndian},
		{"UTF-32 Little Endian BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, encUTF32LittleEndian},
		{"No BOM", []byte(":root {"), encUnknown},
		{"Short", []byte{0xFF}, encUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectUTF(tt.buf); got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectReader(t *testing.T) {
	for _, enc := range allEncodings {
		encoded := encodeSample(t, []byte(sampleCSS), enc)
		if got := detectUTF(encoded); got != enc {
			t.Fatalf("detectUTF() = %v, want %v", got, enc)
		}
		data, err := io.ReadAll(selectReader(bytes.NewReader(encoded), enc))
		if err != nil {
			t.Fatalf("encoding %d: read error = %v", enc, err)
		}
		if string(data) != sampleCSS {
			t.Errorf("encoding %d: decoded = %q", enc, data)
		}
	}
}

func TestSelectReader_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for invalid encoding, but didn't panic")
		}
	}()
	selectReader(bytes.NewReader(nil), srcEncoding(999))
}

func TestIsStyleFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content []byte
		want    bool
		wantEnc srcEncoding
	}{
		{"plain.css", []byte(sampleCSS), true, encUnknown},
		{"bom.CSS", encodeSample(t, []byte(sampleCSS), encUTF8), true, encUTF8},
		{"wide.css", encodeSample(t, []byte(sampleCSS), encUTF16LittleEndian), true, encUTF16LittleEndian},
		{"cp1251.css", []byte(":root {\n --\xf6\xe2\xe5\xf2: #fff;\n}"), true, encUnknown},
		{"variables.css", []byte("--brand: #fff;\n--gray-100: #eee;\n"), true, encUnknown},
		{"notes.txt", []byte(sampleCSS), false, encUnknown},
		{"binary.css", []byte{0x00, 0x01, '{'}, false, encUnknown},
		{"empty.css", nil, false, encUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.content, 0644); err != nil {
				t.Fatal(err)
			}
			got, enc, err := isStyleFile(path)
			if err != nil {
				t.Fatalf("isStyleFile() error = %v", err)
			}
			if got != tt.want || (got && enc != tt.wantEnc) {
				t.Errorf("isStyleFile() = %v, %v; want %v, %v", got, enc, tt.want, tt.wantEnc)
			}
		})
	}

	if _, _, err := isStyleFile(filepath.Join(dir, "missing.css")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	zf, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(zf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := zf.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestIsArchiveFile(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "styles.zip")
	writeZip(t, valid, map[string]string{"a.css": sampleCSS})
	fake := filepath.Join(dir, "fake.zip")
	if err := os.WriteFile(fake, []byte("not a real zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	other := filepath.Join(dir, "styles.bin")
	writeZip(t, other, map[string]string{"a.css": sampleCSS})

	tests := []struct {
		path string
		want bool
	}{
		{valid, true},
		{fake, false},
		{other, false},
	}
	for _, tt := range tests {
		got, err := isArchiveFile(tt.path)
		if err != nil {
			t.Errorf("isArchiveFile(%s) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("isArchiveFile(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := isArchiveFile("/nonexistent/file.zip"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestIsStyleInArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.zip")
	writeZip(t, path, map[string]string{
		"theme/a.css": sampleCSS,
		"theme/b.css": "\x00\x01binary",
		"theme/c.txt": sampleCSS,
		"theme/d.css": string(encodeSample(t, []byte(sampleCSS), encUTF16BigEndian)),
		"theme/e.css": "--brand: #fff;\n",
	})

	want := map[string]bool{
		"theme/a.css": true,
		"theme/b.css": false,
		"theme/c.txt": false,
		"theme/d.css": true,
		"theme/e.css": true,
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		got, _, err := isStyleInArchive(f)
		if err != nil {
			t.Errorf("isStyleInArchive(%s) error = %v", f.Name, err)
		}
		if got != want[f.Name] {
			t.Errorf("isStyleInArchive(%s) = %v, want %v", f.Name, got, want[f.Name])
		}
	}
}
