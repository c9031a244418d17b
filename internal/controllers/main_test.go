package controllers

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvforge/internal/config"
	"csvforge/internal/logger"
	"csvforge/internal/models"
	"csvforge/internal/services"
)

func newTestController() *MainController {
	documentRepo := models.NewDocumentRepository()
	configRepo := models.NewConversionConfiguration()
	stateRepo := models.NewConversionStateRepository()

	return NewMainController(
		services.NewDocumentService(documentRepo),
		services.NewConversionService(documentRepo, configRepo, stateRepo),
		documentRepo, configRepo, stateRepo,
		config.Default(),
		logger.NewZerolog(io.Discard, logger.ErrorLevel),
	)
}

func writeDocument(t *testing.T, document string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o644))
	return path
}

func TestOpenPathNotifiesListeners(t *testing.T) {
	test.NewApp()
	mc := newTestController()

	loaded := make(chan string, 1)
	mc.AddEventListener("document_loaded", func(data interface{}) error {
		doc := data.(*models.Document)
		loaded <- doc.Path
		return nil
	})

	path := writeDocument(t, `[{"a":1},{"a":2}]`)
	mc.OpenPath(path)

	select {
	case got := <-loaded:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("document_loaded listener never ran")
	}
}

func TestOpenPathRecordsRecentFiles(t *testing.T) {
	test.NewApp()
	mc := newTestController()

	loaded := make(chan struct{}, 2)
	mc.AddEventListener("document_loaded", func(interface{}) error {
		loaded <- struct{}{}
		return nil
	})

	first := writeDocument(t, `{"a":1}`)
	mc.OpenPath(first)
	select {
	case <-loaded:
	case <-time.After(3 * time.Second):
		t.Fatal("first document never loaded")
	}

	second := writeDocument(t, `{"b":2}`)
	mc.OpenPath(second)
	select {
	case <-loaded:
	case <-time.After(3 * time.Second):
		t.Fatal("second document never loaded")
	}

	// The list a rebuilt Open Recent submenu would render: most recent
	// first, current session included.
	assert.Equal(t, []string{second, first}, mc.RecentFiles())
}
