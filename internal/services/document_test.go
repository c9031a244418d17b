package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvforge/internal/convert"
	"csvforge/internal/models"
)

type uriReader struct {
	io.Reader
	uri fyne.URI
}

func (r *uriReader) Close() error  { return nil }
func (r *uriReader) URI() fyne.URI { return r.uri }

type failingReader struct {
	uri fyne.URI
}

func (r *failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }
func (r *failingReader) Close() error  { return nil }
func (r *failingReader) URI() fyne.URI { return r.uri }

type uriWriter struct {
	buf  bytes.Buffer
	uri  fyne.URI
	fail bool
}

func (w *uriWriter) Write(p []byte) (int, error) {
	if w.fail {
		return 0, errors.New("device full")
	}
	return w.buf.Write(p)
}

func (w *uriWriter) Close() error  { return nil }
func (w *uriWriter) URI() fyne.URI { return w.uri }

func testReader(document string) *uriReader {
	return &uriReader{
		Reader: strings.NewReader(document),
		uri:    storage.NewFileURI("/tmp/source.json"),
	}
}

func TestDocumentServiceLoadDocument(t *testing.T) {
	t.Run("loads object document", func(t *testing.T) {
		repo := models.NewDocumentRepository()
		ds := NewDocumentService(repo)

		doc, err := ds.LoadDocument(context.Background(), testReader(`{"name":"Ada","age":36}`))
		require.NoError(t, err)

		assert.Equal(t, "/tmp/source.json", doc.Path)
		assert.Equal(t, []string{"name", "age"}, doc.Table.Columns)
		require.Len(t, doc.Table.Rows, 1)
		assert.Same(t, doc, repo.GetDocument())
	})

	t.Run("loads array document", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		doc, err := ds.LoadDocument(context.Background(), testReader(`[{"a":1},{"a":2,"b":3}]`))
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, doc.Table.Columns)
		assert.Len(t, doc.Table.Rows, 2)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		_, err := ds.LoadDocument(context.Background(), testReader(`{"name": `))
		var parseErr *convert.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("unsupported top-level type", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		_, err := ds.LoadDocument(context.Background(), testReader(`"just a string"`))
		var rootErr *convert.UnsupportedRootError
		require.ErrorAs(t, err, &rootErr)
	})

	t.Run("read failure", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		reader := &failingReader{uri: storage.NewFileURI("/tmp/source.json")}
		_, err := ds.LoadDocument(context.Background(), reader)

		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, "/tmp/source.json", readErr.Path)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ds.LoadDocument(ctx, testReader(`{"a":1}`))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDocumentServiceSaveCSV(t *testing.T) {
	t.Run("writes bytes", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		writer := &uriWriter{uri: storage.NewFileURI("/tmp/out.csv")}
		err := ds.SaveCSV(context.Background(), writer, []byte("a,b\n1,2\n"))
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", writer.buf.String())
	})

	t.Run("write failure", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		writer := &uriWriter{uri: storage.NewFileURI("/tmp/out.csv"), fail: true}
		err := ds.SaveCSV(context.Background(), writer, []byte("a,b\n"))

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, "/tmp/out.csv", writeErr.Path)
	})

	t.Run("rejects empty output", func(t *testing.T) {
		ds := NewDocumentService(models.NewDocumentRepository())

		writer := &uriWriter{uri: storage.NewFileURI("/tmp/out.csv")}
		err := ds.SaveCSV(context.Background(), writer, nil)

		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
	})
}

func TestDocumentServiceLargeDocument(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`[`)
	for i := 0; i < 2000; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id":%d,"name":"row %d"}`, i, i)
	}
	sb.WriteString(`]`)

	ds := NewDocumentService(models.NewDocumentRepository())
	doc, err := ds.LoadDocument(context.Background(), testReader(sb.String()))
	require.NoError(t, err)
	assert.Len(t, doc.Table.Rows, 2000)
}
