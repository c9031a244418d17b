package convert

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// QuoteMode controls when CSV fields are quoted.
type QuoteMode int

const (
	// QuoteNecessary quotes a field only when it contains the delimiter, a
	// quote character or a line break.
	QuoteNecessary QuoteMode = iota
	// QuoteAlways quotes every field.
	QuoteAlways
	// QuoteNever writes fields verbatim.
	QuoteNever
)

// String returns the configuration name of the mode.
func (m QuoteMode) String() string {
	switch m {
	case QuoteAlways:
		return "always"
	case QuoteNever:
		return "never"
	default:
		return "necessary"
	}
}

// ParseQuoteMode maps a configuration name to a QuoteMode.
func ParseQuoteMode(name string) (QuoteMode, error) {
	switch strings.ToLower(name) {
	case "necessary", "":
		return QuoteNecessary, nil
	case "always":
		return QuoteAlways, nil
	case "never":
		return QuoteNever, nil
	default:
		return QuoteNecessary, fmt.Errorf("unknown quote mode %q", name)
	}
}

// Delimiters supported by the serializer.
const (
	DelimiterComma     = ','
	DelimiterSemicolon = ';'
	DelimiterTab       = '\t'
)

// ParseDelimiter maps a configuration name to a delimiter rune.
func ParseDelimiter(name string) (rune, error) {
	switch strings.ToLower(name) {
	case "comma", ",", "":
		return DelimiterComma, nil
	case "semicolon", ";":
		return DelimiterSemicolon, nil
	case "tab", "\t":
		return DelimiterTab, nil
	default:
		return DelimiterComma, fmt.Errorf("unknown delimiter %q", name)
	}
}

// DelimiterName returns the configuration name of a delimiter rune.
func DelimiterName(delimiter rune) string {
	switch delimiter {
	case DelimiterSemicolon:
		return "semicolon"
	case DelimiterTab:
		return "tab"
	default:
		return "comma"
	}
}

// Options configures CSV serialization.
type Options struct {
	Delimiter     rune
	QuoteMode     QuoteMode
	IncludeHeader bool
	UseCRLF       bool
	Columns       []string // subset and order; empty means all columns
	Encoding      Encoding
}

// DefaultOptions mirrors the defaults of the settings panel.
func DefaultOptions() Options {
	return Options{
		Delimiter:     DelimiterComma,
		QuoteMode:     QuoteNecessary,
		IncludeHeader: true,
		Encoding:      EncodingUTF8,
	}
}

// Validate rejects option combinations the serializer cannot honor.
func (o Options) Validate() error {
	switch o.Delimiter {
	case DelimiterComma, DelimiterSemicolon, DelimiterTab:
	default:
		return fmt.Errorf("unsupported delimiter %q", o.Delimiter)
	}
	if o.QuoteMode < QuoteNecessary || o.QuoteMode > QuoteNever {
		return fmt.Errorf("unsupported quote mode %d", o.QuoteMode)
	}
	if o.Encoding < EncodingUTF8 || o.Encoding > EncodingWindows1252 {
		return fmt.Errorf("unsupported encoding %d", o.Encoding)
	}
	return nil
}

// Encode serializes the table as delimited text to w, applying the
// configured output encoding.
func Encode(w io.Writer, table *Table, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	encoded, err := newEncodedWriter(w, opts.Encoding)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(encoded)
	columns := table.Project(opts.Columns)
	terminator := "\n"
	if opts.UseCRLF {
		terminator = "\r\n"
	}

	if opts.IncludeHeader {
		if err := writeRecord(buffered, columns, opts, terminator); err != nil {
			return err
		}
	}

	cells := make([]string, len(columns))
	for _, row := range table.Rows {
		for i, col := range columns {
			cells[i] = row[col]
		}
		if err := writeRecord(buffered, cells, opts, terminator); err != nil {
			return err
		}
	}

	if err := buffered.Flush(); err != nil {
		return err
	}
	return encoded.Close()
}

// EncodeToBytes serializes the table into a byte slice.
func EncodeToBytes(table *Table, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, table, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRecord(w *bufio.Writer, fields []string, opts Options, terminator string) error {
	for i, field := range fields {
		if i > 0 {
			if _, err := w.WriteRune(opts.Delimiter); err != nil {
				return err
			}
		}
		if err := writeField(w, field, opts); err != nil {
			return err
		}
	}
	_, err := w.WriteString(terminator)
	return err
}

func writeField(w *bufio.Writer, field string, opts Options) error {
	quote := false
	switch opts.QuoteMode {
	case QuoteAlways:
		quote = true
	case QuoteNecessary:
		quote = strings.ContainsAny(field, string(opts.Delimiter)+"\"\r\n")
	}

	if !quote {
		_, err := w.WriteString(field)
		return err
	}

	if err := w.WriteByte('"'); err != nil {
		return err
	}
	if _, err := w.WriteString(strings.ReplaceAll(field, `"`, `""`)); err != nil {
		return err
	}
	return w.WriteByte('"')
}
