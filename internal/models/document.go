package models

import (
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"

	"csvforge/internal/convert"
)

// Document represents a loaded JSON source document.
type Document struct {
	URI      fyne.URI
	Path     string
	Size     int64
	Root     convert.Value
	Table    *convert.Table
	LoadTime time.Time
}

// ConversionResult contains the output of one conversion run.
type ConversionResult struct {
	ID          string
	CSV         []byte
	Table       *convert.Table
	Options     convert.Options
	RowCount    int
	ColumnCount int
	Duration    time.Duration
	CreatedAt   time.Time
}

// DocumentRepository manages the loaded document and conversion history.
type DocumentRepository struct {
	mu             sync.RWMutex
	document       *Document
	results        []ConversionResult
	maxHistorySize int
}

// NewDocumentRepository creates an empty repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		maxHistorySize: 10,
	}
}

// SetDocument stores a freshly loaded document and clears previous results.
func (r *DocumentRepository) SetDocument(doc *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.document = doc
	r.results = nil
}

// GetDocument retrieves the current document.
func (r *DocumentRepository) GetDocument() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.document
}

// AddResult stores a conversion result, assigning it an ID and trimming the
// history to its size bound.
func (r *DocumentRepository) AddResult(result ConversionResult) ConversionResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	result.ID = uuid.NewString()
	result.CreatedAt = time.Now()
	r.results = append(r.results, result)

	if len(r.results) > r.maxHistorySize {
		r.results = r.results[len(r.results)-r.maxHistorySize:]
	}
	return result
}

// LatestResult returns the most recent conversion result, or nil.
func (r *DocumentRepository) LatestResult() *ConversionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.results) == 0 {
		return nil
	}
	latest := r.results[len(r.results)-1]
	return &latest
}

// Results returns a copy of the conversion history, oldest first.
func (r *DocumentRepository) Results() []ConversionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]ConversionResult, len(r.results))
	copy(results, r.results)
	return results
}

// Clear removes the document and all results.
func (r *DocumentRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.document = nil
	r.results = nil
}

// DocumentStats contains repository statistics for monitoring.
type DocumentStats struct {
	HasDocument  bool
	DocumentSize int64
	RowCount     int
	ColumnCount  int
	ResultCount  int
}

// GetStats returns statistics about the repository contents.
func (r *DocumentRepository) GetStats() DocumentStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := DocumentStats{
		HasDocument: r.document != nil,
		ResultCount: len(r.results),
	}
	if r.document != nil {
		stats.DocumentSize = r.document.Size
		if r.document.Table != nil {
			stats.RowCount = len(r.document.Table.Rows)
			stats.ColumnCount = len(r.document.Table.Columns)
		}
	}
	return stats
}
