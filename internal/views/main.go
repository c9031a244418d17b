package views

import (
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"csvforge/internal/models"
	"csvforge/internal/views/components"
)

// MainView represents the main application view using MVC pattern
type MainView struct {
	// UI Components
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	preview       *components.PreviewTable
	optionsPanel  *components.OptionsPanel
	statusBar     *components.StatusBar
	progressBar   *components.ProgressBar

	// Event handlers - connected to controller
	openDocumentHandler    func()
	convertHandler         func()
	saveHandler            func()
	cancelHandler          func()
	delimiterHandler       func(string)
	quoteModeHandler       func(string)
	encodingHandler        func(string)
	headerHandler          func(bool)
	crlfHandler            func(bool)
	previewRowsHandler     func(int)
	columnSelectionHandler func([]string)
	searchHandler          func(string)
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

// initializeComponents creates all UI components
func (mv *MainView) initializeComponents() {
	mv.toolbar = components.NewToolbar()
	mv.preview = components.NewPreviewTable()
	mv.optionsPanel = components.NewOptionsPanel()
	mv.statusBar = components.NewStatusBar()
	mv.progressBar = components.NewProgressBar()
}

// buildLayout constructs the main layout
func (mv *MainView) buildLayout() {
	topArea := container.NewVBox(
		mv.toolbar.GetContainer(),
		mv.progressBar.GetContainer(),
	)

	optionsScroll := container.NewVScroll(mv.optionsPanel.GetContainer())
	optionsScroll.SetMinSize(fyne.NewSize(260, 0))

	mv.mainContainer = container.NewBorder(
		topArea,                      // top
		mv.statusBar.GetContainer(), // bottom
		nil,                         // left
		optionsScroll,               // right
		mv.preview.GetContainer(),   // center
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers connects internal component events
func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetOpenHandler(func() {
		if mv.openDocumentHandler != nil {
			mv.openDocumentHandler()
		}
	})
	mv.toolbar.SetConvertHandler(func() {
		if mv.convertHandler != nil {
			mv.convertHandler()
		}
	})
	mv.toolbar.SetSaveHandler(func() {
		if mv.saveHandler != nil {
			mv.saveHandler()
		}
	})
	mv.toolbar.SetCancelHandler(func() {
		if mv.cancelHandler != nil {
			mv.cancelHandler()
		}
	})
	mv.toolbar.SetDelimiterHandler(func(name string) {
		if mv.delimiterHandler != nil {
			mv.delimiterHandler(name)
		}
	})

	mv.optionsPanel.SetQuoteHandler(func(name string) {
		if mv.quoteModeHandler != nil {
			mv.quoteModeHandler(name)
		}
	})
	mv.optionsPanel.SetEncodingHandler(func(name string) {
		if mv.encodingHandler != nil {
			mv.encodingHandler(name)
		}
	})
	mv.optionsPanel.SetHeaderHandler(func(include bool) {
		if mv.headerHandler != nil {
			mv.headerHandler(include)
		}
	})
	mv.optionsPanel.SetCRLFHandler(func(crlf bool) {
		if mv.crlfHandler != nil {
			mv.crlfHandler(crlf)
		}
	})
	mv.optionsPanel.SetPreviewRowsHandler(func(rows int) {
		if mv.previewRowsHandler != nil {
			mv.previewRowsHandler(rows)
		}
	})
	mv.optionsPanel.SetColumnSelectionHandler(func(columns []string) {
		if mv.columnSelectionHandler != nil {
			mv.columnSelectionHandler(columns)
		}
	})

	mv.preview.SetSearchHandler(func(query string) {
		if mv.searchHandler != nil {
			mv.searchHandler(query)
		}
	})
}

// Event handler setters

// SetOpenDocumentHandler sets the open document handler
func (mv *MainView) SetOpenDocumentHandler(handler func()) {
	mv.openDocumentHandler = handler
}

// SetConvertHandler sets the convert handler
func (mv *MainView) SetConvertHandler(handler func()) {
	mv.convertHandler = handler
}

// SetSaveHandler sets the save CSV handler
func (mv *MainView) SetSaveHandler(handler func()) {
	mv.saveHandler = handler
}

// SetCancelHandler sets the cancel conversion handler
func (mv *MainView) SetCancelHandler(handler func()) {
	mv.cancelHandler = handler
}

// SetDelimiterHandler sets the delimiter change handler
func (mv *MainView) SetDelimiterHandler(handler func(string)) {
	mv.delimiterHandler = handler
}

// SetQuoteModeHandler sets the quote mode change handler
func (mv *MainView) SetQuoteModeHandler(handler func(string)) {
	mv.quoteModeHandler = handler
}

// SetEncodingHandler sets the encoding change handler
func (mv *MainView) SetEncodingHandler(handler func(string)) {
	mv.encodingHandler = handler
}

// SetHeaderHandler sets the header toggle handler
func (mv *MainView) SetHeaderHandler(handler func(bool)) {
	mv.headerHandler = handler
}

// SetCRLFHandler sets the line ending toggle handler
func (mv *MainView) SetCRLFHandler(handler func(bool)) {
	mv.crlfHandler = handler
}

// SetPreviewRowsHandler sets the preview row cap handler
func (mv *MainView) SetPreviewRowsHandler(handler func(int)) {
	mv.previewRowsHandler = handler
}

// SetColumnSelectionHandler sets the column selection handler
func (mv *MainView) SetColumnSelectionHandler(handler func([]string)) {
	mv.columnSelectionHandler = handler
}

// SetSearchHandler sets the preview search handler
func (mv *MainView) SetSearchHandler(handler func(string)) {
	mv.searchHandler = handler
}

// Display operations

// ShowDocument presents a freshly loaded document
func (mv *MainView) ShowDocument(doc *models.Document, previewRows int) {
	name := filepath.Base(doc.Path)
	rows := len(doc.Table.Rows)
	columns := doc.Table.Columns

	mv.toolbar.SetDocumentInfo(name, rows, len(columns))
	mv.toolbar.EnableDocumentOperations(true)
	mv.statusBar.SetDocumentInfo(rows, len(columns), doc.Size)
	mv.optionsPanel.SetColumns(columns)
	mv.preview.ClearSearch()
	mv.preview.SetData(columns, doc.Table.Matrix(columns, previewRows))
	mv.statusBar.SetMatchInfo(min(rows, previewRows), rows)
}

// UpdatePreview replaces the preview grid after a search or option change
func (mv *MainView) UpdatePreview(columns []string, cells [][]string, totalMatched int) {
	mv.preview.SetData(columns, cells)
	mv.statusBar.SetMatchInfo(len(cells), totalMatched)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetConversionActive toggles the converting UI state
func (mv *MainView) SetConversionActive(active bool) {
	mv.toolbar.SetConversionActive(active)
	mv.progressBar.SetVisible(active)
	if !active {
		mv.progressBar.SetProgress(0.0)
	}
}

// UpdateConversionProgress updates the stage label and progress bar
func (mv *MainView) UpdateConversionProgress(stage string, progress float64) {
	mv.progressBar.SetStage(stage)
	mv.progressBar.SetProgress(progress)
}

// SetSerializationOptions synchronizes the option widgets with settings
func (mv *MainView) SetSerializationOptions(delimiter, quoteMode, encoding string, includeHeader, crlf bool) {
	mv.toolbar.SetDelimiter(delimiter)
	mv.optionsPanel.SetFromOptions(quoteMode, encoding, includeHeader, crlf)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	dialog.ShowError(err, mv.window)
	mv.statusBar.SetStatus(title)
}

// Reset restores the initial empty state
func (mv *MainView) Reset() {
	mv.toolbar.Reset()
	mv.preview.Reset()
	mv.optionsPanel.Reset()
	mv.statusBar.Reset()
	mv.progressBar.Reset()
}

// GetContainer returns the root container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}
