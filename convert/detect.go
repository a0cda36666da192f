package convert

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"cssfig/archive"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

// headerSize is how much of the file is looked at to detect its type.
const headerSize = 1024

var styleSheetType = filetype.NewType("css", "text/css")

func init() {
	filetype.AddMatcher(styleSheetType, styleSheetMatcher)
}

// styleSheetMatcher accepts any non empty text. Style sheet may consist of
// standalone declarations only or start with long comment, so no particular
// token is required. Text may be in single byte code page, so UTF-8 validity
// is not required either.
func styleSheetMatcher(buf []byte) bool {
	return len(buf) > 0 && bytes.IndexByte(buf, 0) < 0
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && bytes.Equal(buf[:3], utf8BOM)
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32 is checked first since its
// little endian mark starts with UTF-16 one.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader which produces UTF-8 without byte order mark.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	}
	panic(fmt.Sprintf("unexpected source encoding %d", enc))
}

// isStyleHeader decides if file with given name and header is style sheet.
func isStyleHeader(name string, head []byte) (bool, srcEncoding) {
	if !archive.HasExt(name, ".css") {
		return false, encUnknown
	}
	enc := detectUTF(head)
	switch enc {
	case encUTF16BigEndian, encUTF16LittleEndian, encUTF32BigEndian, encUTF32LittleEndian:
		// wide encodings are trusted by extension and mark
		return true, enc
	}
	return filetype.Is(head, styleSheetType.Extension), enc
}

func readHeader(r io.Reader) ([]byte, error) {
	head := make([]byte, headerSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return head[:n], nil
}

func isStyleFile(path string) (bool, srcEncoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, encUnknown, err
	}
	defer f.Close()

	head, err := readHeader(f)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := isStyleHeader(path, head)
	return ok, enc, nil
}

func isStyleInArchive(f *zip.File) (bool, srcEncoding, error) {
	if !archive.HasExt(f.Name, ".css") {
		return false, encUnknown, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, encUnknown, err
	}
	defer r.Close()

	head, err := readHeader(r)
	if err != nil {
		return false, encUnknown, err
	}
	ok, enc := isStyleHeader(f.Name, head)
	return ok, enc, nil
}

func isArchiveFile(path string) (bool, error) {
	if !archive.HasExt(path, ".zip") {
		return false, nil
	}
	return archive.IsZip(path)
}
