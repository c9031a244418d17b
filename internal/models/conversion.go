package models

import (
	"fmt"
	"sync"
	"time"

	"csvforge/internal/convert"
)

// Preview row count limits, matching the settings slider.
const (
	MinPreviewRows = 10
	MaxPreviewRows = 1000
)

// ConversionConfiguration manages conversion options with validation.
type ConversionConfiguration struct {
	mu              sync.RWMutex
	options         convert.Options
	previewRows     int
	selectedColumns []string
}

// NewConversionConfiguration creates a configuration with defaults.
func NewConversionConfiguration() *ConversionConfiguration {
	return &ConversionConfiguration{
		options:     convert.DefaultOptions(),
		previewRows: 100,
	}
}

// Options returns a copy of the current serializer options, including the
// selected column subset.
func (cc *ConversionConfiguration) Options() convert.Options {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	opts := cc.options
	opts.Columns = make([]string, len(cc.selectedColumns))
	copy(opts.Columns, cc.selectedColumns)
	return opts
}

// SetOptions replaces the base serializer options after validation.
func (cc *ConversionConfiguration) SetOptions(opts convert.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	columns := opts.Columns
	opts.Columns = nil
	cc.options = opts
	if columns != nil {
		cc.selectedColumns = columns
	}
	return nil
}

// SetDelimiter validates and stores the delimiter.
func (cc *ConversionConfiguration) SetDelimiter(name string) error {
	delimiter, err := convert.ParseDelimiter(name)
	if err != nil {
		return NewValidationError("delimiter", name, err.Error())
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.options.Delimiter = delimiter
	return nil
}

// SetQuoteMode validates and stores the quote mode.
func (cc *ConversionConfiguration) SetQuoteMode(name string) error {
	mode, err := convert.ParseQuoteMode(name)
	if err != nil {
		return NewValidationError("quote_mode", name, err.Error())
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.options.QuoteMode = mode
	return nil
}

// SetEncoding validates and stores the output encoding.
func (cc *ConversionConfiguration) SetEncoding(name string) error {
	encoding, err := convert.ParseEncoding(name)
	if err != nil {
		return NewValidationError("encoding", name, err.Error())
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.options.Encoding = encoding
	return nil
}

// SetIncludeHeader toggles the header row.
func (cc *ConversionConfiguration) SetIncludeHeader(include bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.options.IncludeHeader = include
}

// SetUseCRLF toggles CRLF line endings.
func (cc *ConversionConfiguration) SetUseCRLF(crlf bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.options.UseCRLF = crlf
}

// SetPreviewRows validates and stores the preview row cap.
func (cc *ConversionConfiguration) SetPreviewRows(rows int) error {
	if rows < MinPreviewRows || rows > MaxPreviewRows {
		return NewValidationError("preview_rows", rows,
			fmt.Sprintf("value must be between %d and %d", MinPreviewRows, MaxPreviewRows))
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.previewRows = rows
	return nil
}

// PreviewRows returns the preview row cap.
func (cc *ConversionConfiguration) PreviewRows() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.previewRows
}

// SetSelectedColumns stores the export column subset. An empty selection
// means all columns.
func (cc *ConversionConfiguration) SetSelectedColumns(columns []string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.selectedColumns = make([]string, len(columns))
	copy(cc.selectedColumns, columns)
}

// SelectedColumns returns a copy of the export column subset.
func (cc *ConversionConfiguration) SelectedColumns() []string {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	columns := make([]string, len(cc.selectedColumns))
	copy(columns, cc.selectedColumns)
	return columns
}

// ValidationError reports a rejected option value.
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error.
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q with value %v: %s",
		ve.Parameter, ve.Value, ve.Message)
}

// ConversionState represents the state of an in-flight conversion.
type ConversionState struct {
	IsActive          bool
	Stage             string
	Progress          float64
	StartTime         time.Time
	CancellationToken CancellationToken
}

// CancellationToken provides cooperative cancellation of a conversion.
type CancellationToken struct {
	mu        sync.RWMutex
	cancelled bool
}

// NewCancellationToken creates a new cancellation token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel marks the token as cancelled.
func (ct *CancellationToken) Cancel() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.cancelled = true
}

// IsCancelled returns true if the token has been cancelled.
func (ct *CancellationToken) IsCancelled() bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.cancelled
}

// Reset clears the cancellation state.
func (ct *CancellationToken) Reset() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.cancelled = false
}

// ConversionStateRepository manages conversion progress state.
type ConversionStateRepository struct {
	mu    sync.RWMutex
	state ConversionState
}

// NewConversionStateRepository creates an idle state repository.
func NewConversionStateRepository() *ConversionStateRepository {
	return &ConversionStateRepository{
		state: ConversionState{
			CancellationToken: CancellationToken{},
		},
	}
}

// GetState returns a snapshot of the current state.
func (csr *ConversionStateRepository) GetState() ConversionState {
	csr.mu.RLock()
	defer csr.mu.RUnlock()

	return ConversionState{
		IsActive:  csr.state.IsActive,
		Stage:     csr.state.Stage,
		Progress:  csr.state.Progress,
		StartTime: csr.state.StartTime,
	}
}

// StartConversion marks a conversion as active.
func (csr *ConversionStateRepository) StartConversion() {
	csr.mu.Lock()
	defer csr.mu.Unlock()

	csr.state.IsActive = true
	csr.state.Stage = "Starting conversion"
	csr.state.Progress = 0.0
	csr.state.StartTime = time.Now()
	csr.state.CancellationToken.Reset()
}

// UpdateProgress updates the stage and progress of the active conversion.
func (csr *ConversionStateRepository) UpdateProgress(stage string, progress float64) {
	csr.mu.Lock()
	defer csr.mu.Unlock()

	if csr.state.IsActive {
		csr.state.Stage = stage
		csr.state.Progress = progress
	}
}

// CompleteConversion marks the conversion as finished.
func (csr *ConversionStateRepository) CompleteConversion() {
	csr.mu.Lock()
	defer csr.mu.Unlock()

	csr.state.IsActive = false
	csr.state.Stage = "Complete"
	csr.state.Progress = 1.0
}

// CancelConversion cancels the active conversion.
func (csr *ConversionStateRepository) CancelConversion() {
	csr.mu.Lock()
	defer csr.mu.Unlock()

	csr.state.CancellationToken.Cancel()
	csr.state.IsActive = false
	csr.state.Stage = "Cancelled"
}

// IsConverting returns true while a conversion is active.
func (csr *ConversionStateRepository) IsConverting() bool {
	csr.mu.RLock()
	defer csr.mu.RUnlock()
	return csr.state.IsActive
}

// GetCancellationToken returns the active cancellation token.
func (csr *ConversionStateRepository) GetCancellationToken() *CancellationToken {
	csr.mu.RLock()
	defer csr.mu.RUnlock()
	return &csr.state.CancellationToken
}
