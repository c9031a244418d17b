package convert

import "strings"

// Table is the flattened tabular form of a JSON document. Columns follow
// first-seen order across all rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// Tabulate flattens a decoded document root into a table. A top-level object
// yields one row; a top-level array yields one row per object element, with
// non-object elements skipped. Any other root kind is rejected.
func Tabulate(root Value) (*Table, error) {
	table := &Table{}
	seen := make(map[string]bool)

	addRow := func(obj Value) {
		row, order := flattenObject(obj)
		for _, path := range order {
			if !seen[path] {
				seen[path] = true
				table.Columns = append(table.Columns, path)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	switch root.Kind {
	case KindObject:
		addRow(root)
	case KindArray:
		for _, item := range root.Items {
			if item.Kind == KindObject {
				addRow(item)
			}
		}
	default:
		return nil, &UnsupportedRootError{Kind: root.Kind}
	}

	return table, nil
}

// Project restricts the column order to the given selection, dropping names
// the table does not know. An empty selection means all columns.
func (t *Table) Project(selection []string) []string {
	if len(selection) == 0 {
		cols := make([]string, len(t.Columns))
		copy(cols, t.Columns)
		return cols
	}

	known := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		known[c] = true
	}

	var cols []string
	for _, c := range selection {
		if known[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

// Search returns the rows with at least one cell containing the query,
// case-insensitively. An empty query matches everything.
func (t *Table) Search(query string) []Row {
	if query == "" {
		return t.Rows
	}

	needle := strings.ToLower(query)
	var matched []Row
	for _, row := range t.Rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

// Matrix renders up to maxRows rows as cell slices in the given column
// order, for grid display. maxRows <= 0 means no limit.
func (t *Table) Matrix(columns []string, maxRows int) [][]string {
	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	matrix := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = row[col]
		}
		matrix = append(matrix, cells)
	}
	return matrix
}
