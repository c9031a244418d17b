package services

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"

	"csvforge/internal/convert"
	"csvforge/internal/models"
)

// ReadError indicates the source file could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError indicates the output file could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DocumentService handles loading JSON documents and saving CSV output.
type DocumentService struct {
	repository *models.DocumentRepository
}

// NewDocumentService creates a new document service.
func NewDocumentService(repo *models.DocumentRepository) *DocumentService {
	return &DocumentService{
		repository: repo,
	}
}

// LoadDocument reads, decodes, and tabulates a JSON document from a URI
// reader. Read failures, malformed JSON, and unsupported top-level types
// each surface as distinct error types.
func (ds *DocumentService) LoadDocument(ctx context.Context, reader fyne.URIReadCloser) (*models.Document, error) {
	defer reader.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	startTime := time.Now()
	uri := reader.URI()

	data, err := io.ReadAll(bufio.NewReader(reader))
	if err != nil {
		return nil, &ReadError{Path: uri.Path(), Err: err}
	}

	root, err := convert.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	table, err := convert.Tabulate(root)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		URI:      uri,
		Path:     uri.Path(),
		Size:     int64(len(data)),
		Root:     root,
		Table:    table,
		LoadTime: startTime,
	}

	ds.repository.SetDocument(doc)
	return doc, nil
}

// SaveCSV writes serialized CSV bytes to a URI writer.
func (ds *DocumentService) SaveCSV(ctx context.Context, writer fyne.URIWriteCloser, csv []byte) error {
	defer writer.Close()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path := writer.URI().Path()
	if len(csv) == 0 {
		return &WriteError{Path: path, Err: fmt.Errorf("no conversion output available")}
	}

	buffered := bufio.NewWriter(writer)
	if _, err := buffered.Write(csv); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := buffered.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
