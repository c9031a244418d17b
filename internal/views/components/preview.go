package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// PreviewTable shows the flattened document as a searchable grid
type PreviewTable struct {
	container   *fyne.Container
	searchEntry *widget.Entry
	table       *widget.Table
	emptyLabel  *widget.Label

	// Event handlers
	searchHandler func(string)

	// Grid data, written only from the Fyne thread
	columns []string
	cells   [][]string
}

// NewPreviewTable creates a new preview table component
func NewPreviewTable() *PreviewTable {
	pt := &PreviewTable{}
	pt.createComponents()
	pt.buildLayout()
	pt.setupEventHandlers()
	return pt
}

// createComponents initializes preview components
func (pt *PreviewTable) createComponents() {
	pt.searchEntry = widget.NewEntry()
	pt.searchEntry.SetPlaceHolder("Search rows...")

	pt.table = widget.NewTableWithHeaders(
		func() (int, int) {
			return len(pt.cells), len(pt.columns)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			if id.Row < len(pt.cells) && id.Col < len(pt.cells[id.Row]) {
				label.SetText(pt.cells[id.Row][id.Col])
			} else {
				label.SetText("")
			}
		},
	)
	pt.table.CreateHeader = func() fyne.CanvasObject {
		label := widget.NewLabel("")
		label.TextStyle = fyne.TextStyle{Bold: true}
		return label
	}
	pt.table.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		if id.Row < 0 && id.Col >= 0 && id.Col < len(pt.columns) {
			label.SetText(pt.columns[id.Col])
		} else {
			label.SetText("")
		}
	}

	pt.emptyLabel = widget.NewLabel("Open a JSON file to see its preview")
}

// buildLayout constructs the preview layout
func (pt *PreviewTable) buildLayout() {
	pt.table.Hide()
	pt.container = container.NewBorder(
		pt.searchEntry,
		nil, nil, nil,
		container.NewStack(pt.emptyLabel, pt.table),
	)
}

// setupEventHandlers connects search events
func (pt *PreviewTable) setupEventHandlers() {
	pt.searchEntry.OnChanged = func(query string) {
		if pt.searchHandler != nil {
			pt.searchHandler(query)
		}
	}
}

// SetSearchHandler sets the search query handler
func (pt *PreviewTable) SetSearchHandler(handler func(string)) {
	pt.searchHandler = handler
}

// SetData replaces the displayed grid
func (pt *PreviewTable) SetData(columns []string, cells [][]string) {
	fyne.Do(func() {
		pt.columns = columns
		pt.cells = cells

		if len(columns) == 0 {
			pt.table.Hide()
			pt.emptyLabel.Show()
		} else {
			pt.emptyLabel.Hide()
			pt.table.Show()
		}
		pt.table.Refresh()
	})
}

// ClearSearch empties the search box without firing the handler
func (pt *PreviewTable) ClearSearch() {
	fyne.Do(func() {
		handler := pt.searchHandler
		pt.searchHandler = nil
		pt.searchEntry.SetText("")
		pt.searchHandler = handler
	})
}

// Reset resets the preview to initial state
func (pt *PreviewTable) Reset() {
	fyne.Do(func() {
		pt.columns = nil
		pt.cells = nil
		pt.searchEntry.SetText("")
		pt.table.Hide()
		pt.emptyLabel.Show()
	})
}

// GetContainer returns the preview container
func (pt *PreviewTable) GetContainer() *fyne.Container {
	return pt.container
}
