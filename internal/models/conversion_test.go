package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvforge/internal/convert"
)

func TestConversionConfiguration(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cc := NewConversionConfiguration()
		opts := cc.Options()

		assert.Equal(t, convert.DelimiterComma, opts.Delimiter)
		assert.Equal(t, convert.QuoteNecessary, opts.QuoteMode)
		assert.True(t, opts.IncludeHeader)
		assert.Equal(t, 100, cc.PreviewRows())
	})

	t.Run("accepts valid delimiters", func(t *testing.T) {
		cc := NewConversionConfiguration()
		for _, name := range []string{"comma", "semicolon", "tab"} {
			assert.NoError(t, cc.SetDelimiter(name))
		}
	})

	t.Run("rejects unknown delimiter", func(t *testing.T) {
		cc := NewConversionConfiguration()
		err := cc.SetDelimiter("pipe")
		require.Error(t, err)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "delimiter", ve.Parameter)
	})

	t.Run("rejects unknown quote mode", func(t *testing.T) {
		cc := NewConversionConfiguration()
		require.NoError(t, cc.SetQuoteMode("always"))
		assert.Error(t, cc.SetQuoteMode("sometimes"))
	})

	t.Run("rejects unknown encoding", func(t *testing.T) {
		cc := NewConversionConfiguration()
		require.NoError(t, cc.SetEncoding("windows-1252"))
		assert.Error(t, cc.SetEncoding("ebcdic"))
	})

	t.Run("preview rows bounds", func(t *testing.T) {
		cc := NewConversionConfiguration()
		assert.NoError(t, cc.SetPreviewRows(10))
		assert.NoError(t, cc.SetPreviewRows(1000))
		assert.Error(t, cc.SetPreviewRows(9))
		assert.Error(t, cc.SetPreviewRows(1001))
	})

	t.Run("column selection is copied", func(t *testing.T) {
		cc := NewConversionConfiguration()
		source := []string{"a", "b"}
		cc.SetSelectedColumns(source)
		source[0] = "mutated"

		assert.Equal(t, []string{"a", "b"}, cc.SelectedColumns())
		assert.Equal(t, []string{"a", "b"}, cc.Options().Columns)
	})

	t.Run("set options validates", func(t *testing.T) {
		cc := NewConversionConfiguration()
		bad := convert.DefaultOptions()
		bad.Delimiter = '|'
		assert.Error(t, cc.SetOptions(bad))

		good := convert.DefaultOptions()
		good.Delimiter = convert.DelimiterTab
		good.UseCRLF = true
		require.NoError(t, cc.SetOptions(good))

		opts := cc.Options()
		assert.Equal(t, convert.DelimiterTab, opts.Delimiter)
		assert.True(t, opts.UseCRLF)
	})
}

func TestCancellationToken(t *testing.T) {
	token := NewCancellationToken()
	assert.False(t, token.IsCancelled())

	token.Cancel()
	assert.True(t, token.IsCancelled())

	token.Reset()
	assert.False(t, token.IsCancelled())
}

func TestConversionStateRepository(t *testing.T) {
	t.Run("lifecycle", func(t *testing.T) {
		repo := NewConversionStateRepository()
		assert.False(t, repo.IsConverting())

		repo.StartConversion()
		assert.True(t, repo.IsConverting())
		state := repo.GetState()
		assert.Equal(t, "Starting conversion", state.Stage)
		assert.Zero(t, state.Progress)
		assert.False(t, state.StartTime.IsZero())

		repo.UpdateProgress("Flattening rows", 0.4)
		state = repo.GetState()
		assert.Equal(t, "Flattening rows", state.Stage)
		assert.InDelta(t, 0.4, state.Progress, 0.001)

		repo.CompleteConversion()
		assert.False(t, repo.IsConverting())
		state = repo.GetState()
		assert.Equal(t, "Complete", state.Stage)
		assert.InDelta(t, 1.0, state.Progress, 0.001)
	})

	t.Run("progress ignored when idle", func(t *testing.T) {
		repo := NewConversionStateRepository()
		repo.UpdateProgress("Flattening rows", 0.4)
		assert.Zero(t, repo.GetState().Progress)
	})

	t.Run("cancellation", func(t *testing.T) {
		repo := NewConversionStateRepository()
		repo.StartConversion()
		token := repo.GetCancellationToken()
		assert.False(t, token.IsCancelled())

		repo.CancelConversion()
		assert.True(t, token.IsCancelled())
		assert.False(t, repo.IsConverting())
		assert.Equal(t, "Cancelled", repo.GetState().Stage)

		repo.StartConversion()
		assert.False(t, repo.GetCancellationToken().IsCancelled())
	})
}
