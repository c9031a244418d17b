package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Delimiter display names shown in the toolbar select.
var delimiterChoices = []string{"Comma (,)", "Semicolon (;)", "Tab"}

// delimiterNames maps display names to configuration names.
var delimiterNames = map[string]string{
	"Comma (,)":     "comma",
	"Semicolon (;)": "semicolon",
	"Tab":           "tab",
}

// Toolbar represents the main application toolbar
type Toolbar struct {
	container       *fyne.Container
	openButton      *widget.Button
	convertButton   *widget.Button
	saveButton      *widget.Button
	cancelButton    *widget.Button
	delimiterSelect *widget.Select
	documentLabel   *widget.Label

	// Event handlers
	openHandler      func()
	convertHandler   func()
	saveHandler      func()
	cancelHandler    func()
	delimiterHandler func(string)

	// State
	conversionActive bool
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	toolbar.setupEventHandlers()
	return toolbar
}

// createComponents initializes all toolbar components
func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButton("Open JSON", nil)
	t.openButton.Importance = widget.HighImportance

	t.convertButton = widget.NewButton("Convert", nil)
	t.convertButton.Importance = widget.HighImportance
	t.convertButton.Disable()

	t.saveButton = widget.NewButton("Save CSV", nil)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.cancelButton = widget.NewButton("Cancel", nil)
	t.cancelButton.Importance = widget.MediumImportance
	t.cancelButton.Disable()

	t.delimiterSelect = widget.NewSelect(delimiterChoices, nil)
	t.delimiterSelect.SetSelected("Comma (,)")

	t.documentLabel = widget.NewLabel("No document loaded")
}

// buildLayout constructs the toolbar layout
func (t *Toolbar) buildLayout() {
	actionSection := container.NewHBox(
		t.openButton,
		widget.NewSeparator(),
		t.convertButton,
		t.cancelButton,
		widget.NewSeparator(),
		t.saveButton,
	)

	delimiterSection := container.NewVBox(
		widget.NewLabel("Delimiter"),
		t.delimiterSelect,
	)

	documentSection := container.NewVBox(
		widget.NewLabel("Document"),
		t.documentLabel,
	)

	t.container = container.NewHBox(
		actionSection,
		widget.NewSeparator(),
		delimiterSection,
		widget.NewSeparator(),
		documentSection,
	)
}

// setupEventHandlers connects button events
func (t *Toolbar) setupEventHandlers() {
	t.openButton.OnTapped = func() {
		if t.openHandler != nil {
			t.openHandler()
		}
	}

	t.convertButton.OnTapped = func() {
		if t.convertHandler != nil {
			t.convertHandler()
		}
	}

	t.saveButton.OnTapped = func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	}

	t.cancelButton.OnTapped = func() {
		if t.cancelHandler != nil {
			t.cancelHandler()
		}
	}

	t.delimiterSelect.OnChanged = func(choice string) {
		if t.delimiterHandler != nil {
			t.delimiterHandler(delimiterNames[choice])
		}
	}
}

// Event handler setters

// SetOpenHandler sets the open document handler
func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

// SetConvertHandler sets the convert handler
func (t *Toolbar) SetConvertHandler(handler func()) {
	t.convertHandler = handler
}

// SetSaveHandler sets the save CSV handler
func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

// SetCancelHandler sets the cancel conversion handler
func (t *Toolbar) SetCancelHandler(handler func()) {
	t.cancelHandler = handler
}

// SetDelimiterHandler sets the delimiter change handler. The handler
// receives the configuration name, not the display name.
func (t *Toolbar) SetDelimiterHandler(handler func(string)) {
	t.delimiterHandler = handler
}

// State management methods

// SetConversionActive updates the conversion state
func (t *Toolbar) SetConversionActive(active bool) {
	fyne.Do(func() {
		t.conversionActive = active

		if active {
			t.convertButton.Disable()
			t.cancelButton.Enable()
			t.saveButton.Disable()
		} else {
			t.convertButton.Enable()
			t.cancelButton.Disable()
			t.saveButton.Enable()
		}
	})
}

// EnableDocumentOperations enables/disables document-dependent operations
func (t *Toolbar) EnableDocumentOperations(enabled bool) {
	fyne.Do(func() {
		if enabled && !t.conversionActive {
			t.convertButton.Enable()
		} else {
			t.convertButton.Disable()
		}
	})
}

// SetDocumentInfo updates the loaded document summary
func (t *Toolbar) SetDocumentInfo(name string, rows, columns int) {
	fyne.Do(func() {
		if name == "" {
			t.documentLabel.SetText("No document loaded")
			return
		}
		t.documentLabel.SetText(fmt.Sprintf("%s  (%d rows, %d columns)", name, rows, columns))
	})
}

// SetDelimiter updates the delimiter select from a configuration name
func (t *Toolbar) SetDelimiter(name string) {
	fyne.Do(func() {
		for choice, configName := range delimiterNames {
			if configName == name {
				t.delimiterSelect.SetSelected(choice)
				return
			}
		}
	})
}

// Reset resets the toolbar to initial state
func (t *Toolbar) Reset() {
	fyne.Do(func() {
		t.convertButton.Disable()
		t.cancelButton.Disable()
		t.saveButton.Disable()
		t.documentLabel.SetText("No document loaded")
		t.delimiterSelect.SetSelected("Comma (,)")
		t.conversionActive = false
	})
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
