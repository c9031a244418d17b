package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAndTabulate(t *testing.T, document string) *Table {
	t.Helper()
	value, err := Decode(strings.NewReader(document))
	require.NoError(t, err)
	table, err := Tabulate(value)
	require.NoError(t, err)
	return table
}

func TestTabulate(t *testing.T) {
	t.Run("single object yields one row", func(t *testing.T) {
		table := decodeAndTabulate(t, `{"name":"Ada","age":36}`)

		assert.Equal(t, []string{"name", "age"}, table.Columns)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Ada", table.Rows[0]["name"])
		assert.Equal(t, "36", table.Rows[0]["age"])
	})

	t.Run("nested values use dotted and bracketed paths", func(t *testing.T) {
		table := decodeAndTabulate(t, `{"user":{"name":"Ada","tags":["a","b"]},"active":true}`)

		assert.Equal(t, []string{"user.name", "user.tags[0]", "user.tags[1]", "active"}, table.Columns)
		row := table.Rows[0]
		assert.Equal(t, "a", row["user.tags[0]"])
		assert.Equal(t, "true", row["active"])
	})

	t.Run("array of arrays inside an object", func(t *testing.T) {
		table := decodeAndTabulate(t, `{"grid":[[1,2],[3]]}`)

		assert.Equal(t, []string{"grid[0][0]", "grid[0][1]", "grid[1][0]"}, table.Columns)
	})

	t.Run("column union follows first-seen order", func(t *testing.T) {
		table := decodeAndTabulate(t, `[{"a":1,"b":2},{"c":3,"a":4},{"b":5,"d":6}]`)

		assert.Equal(t, []string{"a", "b", "c", "d"}, table.Columns)
		require.Len(t, table.Rows, 3)
	})

	t.Run("missing keys render as empty cells", func(t *testing.T) {
		table := decodeAndTabulate(t, `[{"a":1},{"b":2}]`)

		assert.Equal(t, "", table.Rows[0]["b"])
		assert.Equal(t, "", table.Rows[1]["a"])
	})

	t.Run("non-object array elements are skipped", func(t *testing.T) {
		table := decodeAndTabulate(t, `[{"a":1},42,"x",{"a":2}]`)

		require.Len(t, table.Rows, 2)
	})

	t.Run("null renders empty", func(t *testing.T) {
		table := decodeAndTabulate(t, `{"a":null}`)

		assert.Equal(t, []string{"a"}, table.Columns)
		assert.Equal(t, "", table.Rows[0]["a"])
	})

	t.Run("empty containers contribute no columns", func(t *testing.T) {
		table := decodeAndTabulate(t, `{"a":{},"b":[],"c":1}`)

		assert.Equal(t, []string{"c"}, table.Columns)
	})

	t.Run("scalar root is rejected", func(t *testing.T) {
		value, err := Decode(strings.NewReader(`"just a string"`))
		require.NoError(t, err)

		_, err = Tabulate(value)
		var rootErr *UnsupportedRootError
		require.ErrorAs(t, err, &rootErr)
		assert.Equal(t, KindString, rootErr.Kind)
	})
}

func TestTableProject(t *testing.T) {
	table := decodeAndTabulate(t, `[{"a":1,"b":2,"c":3}]`)

	t.Run("empty selection keeps all columns", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, table.Project(nil))
	})

	t.Run("selection reorders and subsets", func(t *testing.T) {
		assert.Equal(t, []string{"c", "a"}, table.Project([]string{"c", "a"}))
	})

	t.Run("unknown names are dropped", func(t *testing.T) {
		assert.Equal(t, []string{"b"}, table.Project([]string{"nope", "b"}))
	})
}

func TestTableSearch(t *testing.T) {
	table := decodeAndTabulate(t, `[{"name":"Ada Lovelace"},{"name":"Alan Turing"},{"name":"Grace Hopper"}]`)

	assert.Len(t, table.Search(""), 3)
	assert.Len(t, table.Search("aLaN"), 1)
	assert.Len(t, table.Search("a"), 3)
	assert.Len(t, table.Search("nobody"), 0)
}

func TestTableMatrix(t *testing.T) {
	table := decodeAndTabulate(t, `[{"a":1,"b":2},{"a":3,"b":4},{"a":5,"b":6}]`)

	matrix := table.Matrix([]string{"b", "a"}, 2)
	require.Len(t, matrix, 2)
	assert.Equal(t, []string{"2", "1"}, matrix[0])
	assert.Equal(t, []string{"4", "3"}, matrix[1])

	assert.Len(t, table.Matrix(table.Columns, 0), 3)
}
