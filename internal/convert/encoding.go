package convert

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding selects the byte encoding of the CSV output.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	// EncodingUTF8BOM prefixes a byte-order mark, which Excel needs to
	// detect UTF-8.
	EncodingUTF8BOM
	EncodingWindows1252
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// String returns the configuration name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf8-bom"
	case EncodingWindows1252:
		return "windows-1252"
	default:
		return "utf8"
	}
}

// ParseEncoding maps a configuration name to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "utf8", "utf-8", "":
		return EncodingUTF8, nil
	case "utf8-bom", "utf-8-bom":
		return EncodingUTF8BOM, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	default:
		return EncodingUTF8, fmt.Errorf("unknown encoding %q", name)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// newEncodedWriter wraps w so that UTF-8 text written to it comes out in the
// requested encoding. The returned writer must be closed to flush transform
// state.
func newEncodedWriter(w io.Writer, encoding Encoding) (io.WriteCloser, error) {
	switch encoding {
	case EncodingUTF8:
		return nopWriteCloser{w}, nil
	case EncodingUTF8BOM:
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, err
		}
		return nopWriteCloser{w}, nil
	case EncodingWindows1252:
		return transform.NewWriter(w, charmap.Windows1252.NewEncoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %d", encoding)
	}
}
