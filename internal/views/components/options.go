package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var quoteChoices = []string{"When necessary", "Always", "Never"}

var quoteNames = map[string]string{
	"When necessary": "necessary",
	"Always":         "always",
	"Never":          "never",
}

var encodingChoices = []string{"UTF-8", "UTF-8 with BOM", "Windows-1252"}

var encodingNames = map[string]string{
	"UTF-8":          "utf-8",
	"UTF-8 with BOM": "utf-8-bom",
	"Windows-1252":   "windows-1252",
}

// OptionsPanel holds the serialization and preview settings
type OptionsPanel struct {
	container       *fyne.Container
	headerCheck     *widget.Check
	crlfCheck       *widget.Check
	quoteSelect     *widget.Select
	encodingSelect  *widget.Select
	previewSlider   *widget.Slider
	previewLabel    *widget.Label
	columnGroup     *widget.CheckGroup
	columnScroll    *container.Scroll
	selectAllButton *widget.Button
	selectNoButton  *widget.Button

	// Event handlers
	headerHandler      func(bool)
	crlfHandler        func(bool)
	quoteHandler       func(string)
	encodingHandler    func(string)
	previewRowsHandler func(int)
	columnHandler      func([]string)
}

// NewOptionsPanel creates a new options panel component
func NewOptionsPanel() *OptionsPanel {
	panel := &OptionsPanel{}
	panel.createComponents()
	panel.buildLayout()
	panel.setupEventHandlers()
	return panel
}

// createComponents initializes all option widgets
func (op *OptionsPanel) createComponents() {
	op.headerCheck = widget.NewCheck("Include header row", nil)
	op.headerCheck.SetChecked(true)

	op.crlfCheck = widget.NewCheck("Windows line endings (CRLF)", nil)

	op.quoteSelect = widget.NewSelect(quoteChoices, nil)
	op.quoteSelect.SetSelected("When necessary")

	op.encodingSelect = widget.NewSelect(encodingChoices, nil)
	op.encodingSelect.SetSelected("UTF-8")

	op.previewSlider = widget.NewSlider(10, 1000)
	op.previewSlider.Step = 10
	op.previewSlider.SetValue(100)
	op.previewLabel = widget.NewLabel("Preview rows: 100")

	op.columnGroup = widget.NewCheckGroup(nil, nil)
	op.columnScroll = container.NewVScroll(op.columnGroup)
	op.columnScroll.SetMinSize(fyne.NewSize(220, 300))

	op.selectAllButton = widget.NewButton("All", nil)
	op.selectNoButton = widget.NewButton("None", nil)
}

// buildLayout constructs the options layout
func (op *OptionsPanel) buildLayout() {
	outputSection := container.NewVBox(
		widget.NewLabelWithStyle("Output", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		op.headerCheck,
		op.crlfCheck,
		widget.NewLabel("Quoting"),
		op.quoteSelect,
		widget.NewLabel("Encoding"),
		op.encodingSelect,
	)

	previewSection := container.NewVBox(
		widget.NewLabelWithStyle("Preview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		op.previewLabel,
		op.previewSlider,
	)

	columnSection := container.NewVBox(
		widget.NewLabelWithStyle("Columns", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(op.selectAllButton, op.selectNoButton),
		op.columnScroll,
	)

	op.container = container.NewVBox(
		outputSection,
		widget.NewSeparator(),
		previewSection,
		widget.NewSeparator(),
		columnSection,
	)
}

// setupEventHandlers connects widget events
func (op *OptionsPanel) setupEventHandlers() {
	op.headerCheck.OnChanged = func(checked bool) {
		if op.headerHandler != nil {
			op.headerHandler(checked)
		}
	}

	op.crlfCheck.OnChanged = func(checked bool) {
		if op.crlfHandler != nil {
			op.crlfHandler(checked)
		}
	}

	op.quoteSelect.OnChanged = func(choice string) {
		if op.quoteHandler != nil {
			op.quoteHandler(quoteNames[choice])
		}
	}

	op.encodingSelect.OnChanged = func(choice string) {
		if op.encodingHandler != nil {
			op.encodingHandler(encodingNames[choice])
		}
	}

	op.previewSlider.OnChanged = func(value float64) {
		rows := int(value)
		op.previewLabel.SetText(fmt.Sprintf("Preview rows: %d", rows))
		if op.previewRowsHandler != nil {
			op.previewRowsHandler(rows)
		}
	}

	op.columnGroup.OnChanged = func(selected []string) {
		if op.columnHandler != nil {
			op.columnHandler(selected)
		}
	}

	op.selectAllButton.OnTapped = func() {
		op.columnGroup.SetSelected(append([]string(nil), op.columnGroup.Options...))
	}

	op.selectNoButton.OnTapped = func() {
		op.columnGroup.SetSelected(nil)
	}
}

// Event handler setters

// SetHeaderHandler sets the header toggle handler
func (op *OptionsPanel) SetHeaderHandler(handler func(bool)) {
	op.headerHandler = handler
}

// SetCRLFHandler sets the line ending toggle handler
func (op *OptionsPanel) SetCRLFHandler(handler func(bool)) {
	op.crlfHandler = handler
}

// SetQuoteHandler sets the quote mode handler. The handler receives the
// configuration name, not the display name.
func (op *OptionsPanel) SetQuoteHandler(handler func(string)) {
	op.quoteHandler = handler
}

// SetEncodingHandler sets the encoding handler
func (op *OptionsPanel) SetEncodingHandler(handler func(string)) {
	op.encodingHandler = handler
}

// SetPreviewRowsHandler sets the preview row cap handler
func (op *OptionsPanel) SetPreviewRowsHandler(handler func(int)) {
	op.previewRowsHandler = handler
}

// SetColumnSelectionHandler sets the column selection handler
func (op *OptionsPanel) SetColumnSelectionHandler(handler func([]string)) {
	op.columnHandler = handler
}

// State management methods

// SetColumns replaces the selectable column list. All columns start
// selected, matching the default of exporting everything.
func (op *OptionsPanel) SetColumns(columns []string) {
	fyne.Do(func() {
		op.columnGroup.Options = append([]string(nil), columns...)
		op.columnGroup.SetSelected(append([]string(nil), columns...))
		op.columnGroup.Refresh()
	})
}

// SetFromOptions synchronizes the widgets with stored settings
func (op *OptionsPanel) SetFromOptions(quoteMode, encoding string, includeHeader, crlf bool) {
	fyne.Do(func() {
		op.headerCheck.SetChecked(includeHeader)
		op.crlfCheck.SetChecked(crlf)
		for choice, name := range quoteNames {
			if name == quoteMode {
				op.quoteSelect.SetSelected(choice)
			}
		}
		for choice, name := range encodingNames {
			if name == encoding {
				op.encodingSelect.SetSelected(choice)
			}
		}
	})
}

// Reset resets the panel to initial state
func (op *OptionsPanel) Reset() {
	fyne.Do(func() {
		op.headerCheck.SetChecked(true)
		op.crlfCheck.SetChecked(false)
		op.quoteSelect.SetSelected("When necessary")
		op.encodingSelect.SetSelected("UTF-8")
		op.previewSlider.SetValue(100)
		op.columnGroup.Options = nil
		op.columnGroup.SetSelected(nil)
	})
}

// GetContainer returns the options panel container
func (op *OptionsPanel) GetContainer() *fyne.Container {
	return op.container
}
