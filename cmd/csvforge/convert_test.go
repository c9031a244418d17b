package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConvertFlags() {
	convertOutput = ""
	convertDelimiter = "comma"
	convertQuote = "necessary"
	convertNoHeader = false
	convertColumns = nil
	convertEncoding = "utf8"
	convertCRLF = false
}

func writeInput(t *testing.T, document string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))
	return path
}

func TestRunConvert(t *testing.T) {
	t.Run("default output path", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `[{"a":1,"b":"x"},{"a":2,"b":"y"}]`)

		require.NoError(t, runConvert(input))

		expected := filepath.Join(filepath.Dir(input), "input.csv")
		data, err := os.ReadFile(expected)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,x\n2,y\n", string(data))
	})

	t.Run("explicit output with options", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `{"a":1,"b":2,"c":3}`)
		output := filepath.Join(t.TempDir(), "out.csv")

		convertOutput = output
		convertDelimiter = "semicolon"
		convertNoHeader = true
		convertColumns = []string{"c", "a"}

		require.NoError(t, runConvert(input))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "3;1\n", string(data))
	})

	t.Run("quote always with crlf", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `{"name":"Ada"}`)
		output := filepath.Join(t.TempDir(), "out.csv")

		convertOutput = output
		convertQuote = "always"
		convertCRLF = true

		require.NoError(t, runConvert(input))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "\"name\"\r\n\"Ada\"\r\n", string(data))
	})

	t.Run("bom prefix", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `{"a":1}`)
		output := filepath.Join(t.TempDir(), "out.csv")

		convertOutput = output
		convertEncoding = "utf8-bom"

		require.NoError(t, runConvert(input))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "\xef\xbb\xbfa\n1\n", string(data))
	})

	t.Run("malformed input", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `{"a": `)

		err := runConvert(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed JSON")
	})

	t.Run("unsupported root", func(t *testing.T) {
		resetConvertFlags()
		input := writeInput(t, `42`)

		err := runConvert(input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported top-level JSON type")
	})

	t.Run("missing input file", func(t *testing.T) {
		resetConvertFlags()
		err := runConvert(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})

	t.Run("unknown delimiter flag", func(t *testing.T) {
		resetConvertFlags()
		convertDelimiter = "pipe"

		err := runConvert(writeInput(t, `{"a":1}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown delimiter")
	})
}
