package convert

import "strconv"

// Row maps flattened key paths to rendered scalar values.
type Row map[string]string

// flattenObject walks an object and emits path/scalar pairs. The returned
// path slice preserves document order so the table can build its column
// union in first-seen order.
func flattenObject(obj Value) (Row, []string) {
	row := make(Row)
	var order []string
	flattenInto("", obj, row, &order)
	return row, order
}

func flattenInto(prefix string, value Value, row Row, order *[]string) {
	switch value.Kind {
	case KindObject:
		for _, m := range value.Members {
			path := m.Key
			if prefix != "" {
				path = prefix + "." + m.Key
			}
			flattenInto(path, m.Value, row, order)
		}
	case KindArray:
		for i, item := range value.Items {
			flattenInto(prefix+"["+strconv.Itoa(i)+"]", item, row, order)
		}
	default:
		row[prefix] = renderScalar(value)
		*order = append(*order, prefix)
	}
}

// renderScalar produces the CSV cell text for a scalar value. Strings render
// bare, numbers keep their source lexeme, null renders empty.
func renderScalar(value Value) string {
	switch value.Kind {
	case KindString:
		return value.Str
	case KindNumber:
		return value.Num
	case KindBool:
		if value.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
