package controllers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"csvforge/internal/config"
	"csvforge/internal/convert"
	"csvforge/internal/logger"
	"csvforge/internal/models"
	"csvforge/internal/services"
	"csvforge/internal/views"
)

// MainController orchestrates the application using MVC pattern
type MainController struct {
	// Services
	documentService   *services.DocumentService
	conversionService *services.ConversionService

	// Models/Repositories
	documentRepo *models.DocumentRepository
	configRepo   *models.ConversionConfiguration
	stateRepo    *models.ConversionStateRepository

	// Application config and logging
	appConfig *config.Config
	log       logger.Logger

	// Views
	mainView *views.MainView

	// State management
	mu                   sync.RWMutex
	currentWindow        fyne.Window
	conversionCancelFunc context.CancelFunc
	watcher              *services.DocumentWatcher
	lastDocumentLoad     time.Time
	searchQuery          string

	// Event handlers
	eventHandlers map[string][]EventHandler
	eventMu       sync.RWMutex
}

// EventHandler represents a function that handles application events
type EventHandler func(data interface{}) error

// NewMainController creates a new main controller
func NewMainController(
	documentService *services.DocumentService,
	conversionService *services.ConversionService,
	documentRepo *models.DocumentRepository,
	configRepo *models.ConversionConfiguration,
	stateRepo *models.ConversionStateRepository,
	appConfig *config.Config,
	log logger.Logger,
) *MainController {
	controller := &MainController{
		documentService:   documentService,
		conversionService: conversionService,
		documentRepo:      documentRepo,
		configRepo:        configRepo,
		stateRepo:         stateRepo,
		appConfig:         appConfig,
		log:               log,
		eventHandlers:     make(map[string][]EventHandler),
	}

	controller.initializeEventHandlers()
	return controller
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

// SetWindow sets the main application window
func (mc *MainController) SetWindow(window fyne.Window) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.currentWindow = window
}

// OpenDocument shows the JSON file selection dialog
func (mc *MainController) OpenDocument() {
	mc.mu.RLock()
	window := mc.currentWindow
	mc.mu.RUnlock()

	if window == nil {
		mc.handleError("Window not available", fmt.Errorf("main window not set"))
		return
	}

	fyne.Do(func() {
		fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				mc.handleError("File Selection Error", err)
				return
			}
			if reader == nil {
				return
			}
			go mc.loadDocumentFromReader(reader)
		}, window)
		fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		fileDialog.Show()
	})
}

// OpenPath loads a document directly from a filesystem path. Used by the
// recent-files menu and the automatic reload watcher.
func (mc *MainController) OpenPath(path string) {
	reader, err := storage.Reader(storage.NewFileURI(path))
	if err != nil {
		mc.handleError("File Read Error", &services.ReadError{Path: path, Err: err})
		return
	}
	go mc.loadDocumentFromReader(reader)
}

// SaveResult shows the CSV save dialog for the latest conversion result
func (mc *MainController) SaveResult() {
	result := mc.documentRepo.LatestResult()
	if result == nil {
		mc.handleError("Save Error", fmt.Errorf("no conversion result to save"))
		return
	}

	mc.mu.RLock()
	window := mc.currentWindow
	mc.mu.RUnlock()
	if window == nil {
		return
	}

	fyne.Do(func() {
		fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				mc.handleError("File Save Error", err)
				return
			}
			if writer == nil {
				return
			}
			go mc.saveResultToWriter(writer, result)
		}, window)
		fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
		fileDialog.SetFileName(mc.defaultOutputName())
		fileDialog.Show()
	})
}

// ConvertDocument runs the conversion with the current options
func (mc *MainController) ConvertDocument() {
	if mc.documentRepo.GetDocument() == nil {
		mc.handleError("Conversion Error", fmt.Errorf("no document loaded"))
		return
	}
	if mc.stateRepo.IsConverting() {
		return
	}

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.SetConversionActive(true)
			mc.mainView.UpdateStatus("Starting conversion...")
		}
	})

	go mc.performConversion()
}

// CancelConversion cancels an in-flight conversion
func (mc *MainController) CancelConversion() {
	mc.mu.Lock()
	if mc.conversionCancelFunc != nil {
		mc.conversionCancelFunc()
	}
	mc.mu.Unlock()

	mc.stateRepo.CancelConversion()

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.SetConversionActive(false)
			mc.mainView.UpdateStatus("Conversion cancelled")
		}
	})
}

// ReloadDocument reloads the current document from disk
func (mc *MainController) ReloadDocument() {
	doc := mc.documentRepo.GetDocument()
	if doc == nil {
		return
	}
	mc.OpenPath(doc.Path)
}

// ChangeDelimiter updates the output delimiter from its display name
func (mc *MainController) ChangeDelimiter(name string) {
	if err := mc.configRepo.SetDelimiter(name); err != nil {
		mc.handleError("Option Error", err)
		return
	}
	mc.emitEvent("options_changed", "delimiter")
}

// ChangeQuoteMode updates the field quoting mode
func (mc *MainController) ChangeQuoteMode(name string) {
	if err := mc.configRepo.SetQuoteMode(name); err != nil {
		mc.handleError("Option Error", err)
		return
	}
	mc.emitEvent("options_changed", "quote_mode")
}

// ChangeEncoding updates the output encoding
func (mc *MainController) ChangeEncoding(name string) {
	if err := mc.configRepo.SetEncoding(name); err != nil {
		mc.handleError("Option Error", err)
		return
	}
	mc.emitEvent("options_changed", "encoding")
}

// ToggleHeader switches the header row on or off
func (mc *MainController) ToggleHeader(include bool) {
	mc.configRepo.SetIncludeHeader(include)
	mc.emitEvent("options_changed", "header")
}

// ToggleCRLF switches between LF and CRLF line endings
func (mc *MainController) ToggleCRLF(crlf bool) {
	mc.configRepo.SetUseCRLF(crlf)
	mc.emitEvent("options_changed", "line_endings")
}

// ChangePreviewRows updates the preview row cap
func (mc *MainController) ChangePreviewRows(rows int) {
	if err := mc.configRepo.SetPreviewRows(rows); err != nil {
		mc.handleError("Option Error", err)
		return
	}
	mc.refreshPreview()
}

// SelectColumns updates the exported column subset
func (mc *MainController) SelectColumns(columns []string) {
	mc.configRepo.SetSelectedColumns(columns)
	mc.refreshPreview()
	mc.emitEvent("options_changed", "columns")
}

// SearchPreview filters the preview rows by a query string
func (mc *MainController) SearchPreview(query string) {
	mc.mu.Lock()
	mc.searchQuery = query
	mc.mu.Unlock()
	mc.refreshPreview()
}

// ToggleDarkMode switches the application theme and records the choice
func (mc *MainController) ToggleDarkMode(dark bool) {
	theme := "light"
	if dark {
		theme = "dark"
	}
	mc.appConfig.SetTheme(theme)
	mc.emitEvent("theme_changed", theme)
}

// RecentFiles returns the recently opened document paths
func (mc *MainController) RecentFiles() []string {
	return mc.appConfig.Recents()
}

// GetApplicationState returns the current application state
func (mc *MainController) GetApplicationState() ApplicationState {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	doc := mc.documentRepo.GetDocument()
	result := mc.documentRepo.LatestResult()
	conversionState := mc.stateRepo.GetState()

	state := ApplicationState{
		HasDocument:        doc != nil,
		HasResult:          result != nil,
		IsConverting:       conversionState.IsActive,
		ConversionStage:    conversionState.Stage,
		ConversionProgress: conversionState.Progress,
		LastDocumentLoad:   mc.lastDocumentLoad,
	}
	if doc != nil && doc.Table != nil {
		state.RowCount = len(doc.Table.Rows)
		state.ColumnCount = len(doc.Table.Columns)
	}
	return state
}

// ApplicationState represents the current state of the application
type ApplicationState struct {
	HasDocument        bool
	HasResult          bool
	IsConverting       bool
	ConversionStage    string
	ConversionProgress float64
	RowCount           int
	ColumnCount        int
	LastDocumentLoad   time.Time
}

// performConversion handles the actual conversion in background
func (mc *MainController) performConversion() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mc.mu.Lock()
	mc.conversionCancelFunc = cancel
	mc.mu.Unlock()

	go mc.monitorConversionProgress()

	result, err := mc.conversionService.Convert(ctx)

	mc.mu.Lock()
	mc.conversionCancelFunc = nil
	mc.mu.Unlock()

	fyne.Do(func() {
		if mc.mainView == nil {
			return
		}

		mc.mainView.SetConversionActive(false)

		if err != nil {
			if ctx.Err() != nil {
				mc.mainView.UpdateStatus("Conversion cancelled")
			} else {
				mc.mainView.UpdateStatus("Conversion failed")
				mc.handleError("Conversion Error", err)
			}
			return
		}

		mc.mainView.UpdateStatus(fmt.Sprintf("Converted %d rows, %d columns in %v",
			result.RowCount, result.ColumnCount, result.Duration.Round(time.Millisecond)))
		mc.emitEvent("conversion_complete", result)
	})
}

// monitorConversionProgress tracks conversion progress and updates UI
func (mc *MainController) monitorConversionProgress() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		state := mc.stateRepo.GetState()
		if !state.IsActive {
			break
		}

		fyne.Do(func() {
			if mc.mainView != nil {
				mc.mainView.UpdateConversionProgress(state.Stage, state.Progress)
			}
		})
	}
}

// loadDocumentFromReader loads a document from a file reader
func (mc *MainController) loadDocumentFromReader(reader fyne.URIReadCloser) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.UpdateStatus("Loading document...")
		}
	})

	doc, err := mc.documentService.LoadDocument(ctx, reader)
	if err != nil {
		fyne.Do(func() {
			mc.handleLoadError(err)
			if mc.mainView != nil {
				mc.mainView.UpdateStatus("Ready")
			}
		})
		return
	}

	mc.mu.Lock()
	mc.lastDocumentLoad = time.Now()
	mc.searchQuery = ""
	mc.mu.Unlock()

	mc.appConfig.AddRecentFile(doc.Path)
	mc.configRepo.SetSelectedColumns(nil)

	mc.log.Info("document loaded", map[string]interface{}{
		"path":    doc.Path,
		"size":    doc.Size,
		"rows":    len(doc.Table.Rows),
		"columns": len(doc.Table.Columns),
	})

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.ShowDocument(doc, mc.configRepo.PreviewRows())
			mc.mainView.UpdateStatus(fmt.Sprintf("Loaded %s", filepath.Base(doc.Path)))
		}
	})

	mc.emitEvent("document_loaded", doc)
}

// saveResultToWriter saves a conversion result to a file writer
func (mc *MainController) saveResultToWriter(writer fyne.URIWriteCloser, result *models.ConversionResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.UpdateStatus("Saving CSV...")
		}
	})

	path := writer.URI().Path()
	err := mc.documentService.SaveCSV(ctx, writer, result.CSV)

	fyne.Do(func() {
		if mc.mainView == nil {
			return
		}
		if err != nil {
			mc.handleError("File Write Error", err)
			mc.mainView.UpdateStatus("Save failed")
			return
		}
		mc.mainView.UpdateStatus(fmt.Sprintf("Saved %s", filepath.Base(path)))
	})

	if err == nil {
		mc.log.Info("csv saved", map[string]interface{}{
			"path": path,
			"size": len(result.CSV),
		})
		mc.emitEvent("result_saved", result)
	}
}

// refreshPreview re-renders the preview with the current selection and query
func (mc *MainController) refreshPreview() {
	doc := mc.documentRepo.GetDocument()
	if doc == nil {
		return
	}

	mc.mu.RLock()
	query := mc.searchQuery
	mc.mu.RUnlock()

	columns := doc.Table.Project(mc.configRepo.SelectedColumns())
	filtered := &convert.Table{
		Columns: doc.Table.Columns,
		Rows:    doc.Table.Search(query),
	}
	matrix := filtered.Matrix(columns, mc.configRepo.PreviewRows())

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.UpdatePreview(columns, matrix, len(filtered.Rows))
		}
	})
}

// defaultOutputName derives the suggested CSV filename from the document
func (mc *MainController) defaultOutputName() string {
	doc := mc.documentRepo.GetDocument()
	if doc == nil {
		return "output.csv"
	}
	base := filepath.Base(doc.Path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

// Event system methods

// initializeEventHandlers sets up default event handlers
func (mc *MainController) initializeEventHandlers() {
	mc.AddEventListener("document_loaded", mc.onDocumentLoaded)
	mc.AddEventListener("conversion_complete", mc.onConversionComplete)
	mc.AddEventListener("options_changed", mc.onOptionsChanged)
}

// setupViewEventHandlers connects view events to controller methods
func (mc *MainController) setupViewEventHandlers() {
	if mc.mainView == nil {
		return
	}

	mc.mainView.SetOpenDocumentHandler(mc.OpenDocument)
	mc.mainView.SetConvertHandler(mc.ConvertDocument)
	mc.mainView.SetSaveHandler(mc.SaveResult)
	mc.mainView.SetCancelHandler(mc.CancelConversion)
	mc.mainView.SetDelimiterHandler(mc.ChangeDelimiter)
	mc.mainView.SetQuoteModeHandler(mc.ChangeQuoteMode)
	mc.mainView.SetEncodingHandler(mc.ChangeEncoding)
	mc.mainView.SetHeaderHandler(mc.ToggleHeader)
	mc.mainView.SetCRLFHandler(mc.ToggleCRLF)
	mc.mainView.SetPreviewRowsHandler(mc.ChangePreviewRows)
	mc.mainView.SetColumnSelectionHandler(mc.SelectColumns)
	mc.mainView.SetSearchHandler(mc.SearchPreview)
}

// AddEventListener registers an event handler for a specific event type.
// Handlers run on their own goroutine.
func (mc *MainController) AddEventListener(eventType string, handler EventHandler) {
	mc.eventMu.Lock()
	defer mc.eventMu.Unlock()

	mc.eventHandlers[eventType] = append(mc.eventHandlers[eventType], handler)
}

// emitEvent triggers all handlers for a specific event type
func (mc *MainController) emitEvent(eventType string, data interface{}) {
	mc.eventMu.RLock()
	handlers := mc.eventHandlers[eventType]
	mc.eventMu.RUnlock()

	for _, handler := range handlers {
		go func(h EventHandler) {
			if err := h(data); err != nil {
				mc.handleError(fmt.Sprintf("Event handler error (%s)", eventType), err)
			}
		}(handler)
	}
}

// Event handlers

// onDocumentLoaded restarts the reload watcher for the new document
func (mc *MainController) onDocumentLoaded(data interface{}) error {
	doc, ok := data.(*models.Document)
	if !ok {
		return fmt.Errorf("invalid data type for document_loaded event")
	}

	mc.refreshPreview()

	if !mc.appConfig.AutoReload() {
		return nil
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.watcher != nil {
		if mc.watcher.Path() == doc.Path {
			return nil
		}
		mc.watcher.Stop()
		mc.watcher = nil
	}

	watcher, err := services.NewDocumentWatcher(doc.Path,
		func(path string) {
			mc.log.Debug("document changed on disk", map[string]interface{}{"path": path})
			mc.OpenPath(path)
		},
		func(err error) {
			mc.log.Warning("file watcher error", map[string]interface{}{"error": err.Error()})
		})
	if err != nil {
		return err
	}
	mc.watcher = watcher
	return nil
}

// onConversionComplete keeps the preview in sync with the converted columns
func (mc *MainController) onConversionComplete(data interface{}) error {
	result, ok := data.(*models.ConversionResult)
	if !ok {
		return fmt.Errorf("invalid data type for conversion_complete event")
	}

	mc.log.Info("conversion complete", map[string]interface{}{
		"rows":     result.RowCount,
		"columns":  result.ColumnCount,
		"bytes":    len(result.CSV),
		"duration": result.Duration.String(),
	})
	return nil
}

// onOptionsChanged persists serializer options to the application config
func (mc *MainController) onOptionsChanged(interface{}) error {
	mc.appConfig.SetCSVOptions(mc.configRepo.Options())
	return nil
}

// handleLoadError maps load failures to their distinct dialog titles
func (mc *MainController) handleLoadError(err error) {
	var parseErr *convert.ParseError
	var rootErr *convert.UnsupportedRootError
	var readErr *services.ReadError

	switch {
	case errors.As(err, &parseErr):
		mc.handleError("Invalid JSON", err)
	case errors.As(err, &rootErr):
		mc.handleError("Unsupported Document", err)
	case errors.As(err, &readErr):
		mc.handleError("File Read Error", err)
	default:
		mc.handleError("Document Load Error", err)
	}
}

// handleError handles application errors with consistent UI feedback
func (mc *MainController) handleError(title string, err error) {
	mc.log.Error(title, err, nil)

	fyne.Do(func() {
		if mc.mainView != nil {
			mc.mainView.ShowError(title, err)
		}
	})
}

// Shutdown performs cleanup when the application closes
func (mc *MainController) Shutdown() {
	mc.mu.Lock()
	if mc.watcher != nil {
		mc.watcher.Stop()
		mc.watcher = nil
	}
	cancel := mc.conversionCancelFunc
	mc.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if mc.stateRepo.IsConverting() {
		mc.stateRepo.CancelConversion()
	}
}
