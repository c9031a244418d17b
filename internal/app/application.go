package app

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"csvforge/internal/config"
	"csvforge/internal/controllers"
	"csvforge/internal/convert"
	"csvforge/internal/logger"
	"csvforge/internal/models"
	"csvforge/internal/services"
	"csvforge/internal/views"
)

const (
	AppName    = "CSVForge"
	AppID      = "com.dataconversion.csvforge"
	AppVersion = "1.0.0"
)

// Application wires the models, services, controllers, and views together
// and owns the process lifecycle.
type Application struct {
	// Core components
	fyneApp    fyne.App
	window     fyne.Window
	logger     logger.Logger
	appConfig  *config.Config
	configPath string

	// MVC components
	controller *controllers.MainController
	view       *views.MainView

	// Menu state
	mainMenu   *fyne.MainMenu
	recentItem *fyne.MenuItem

	// Services
	documentService   *services.DocumentService
	conversionService *services.ConversionService

	// Models/Repositories
	documentRepo *models.DocumentRepository
	configRepo   *models.ConversionConfiguration
	stateRepo    *models.ConversionStateRepository

	// Lifecycle management
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates and initializes the application using dependency injection
func New(ctx context.Context, configPath string, log logger.Logger) (*Application, error) {
	appConfig, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	fyneApp := fyneapp.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1000, 800))
	window.CenterOnScreen()

	appCtx, appCancel := context.WithCancel(ctx)

	log.Info("application starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"config":     configPath,
	})

	// Repositories
	documentRepo := models.NewDocumentRepository()
	configRepo := models.NewConversionConfiguration()
	stateRepo := models.NewConversionStateRepository()

	// Seed serializer options from the persisted config
	if opts, err := appConfig.CSVOptions(); err == nil {
		if err := configRepo.SetOptions(opts); err != nil {
			log.Warning("stored options rejected, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
		}
	} else {
		log.Warning("stored options unreadable, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if rows := appConfig.PreviewMaxRows(); rows >= models.MinPreviewRows && rows <= models.MaxPreviewRows {
		_ = configRepo.SetPreviewRows(rows)
	}

	// Services
	documentService := services.NewDocumentService(documentRepo)
	conversionService := services.NewConversionService(documentRepo, configRepo, stateRepo)

	// MVC components
	controller := controllers.NewMainController(
		documentService, conversionService,
		documentRepo, configRepo, stateRepo,
		appConfig, log,
	)
	view := views.NewMainView(window)

	controller.SetMainView(view)
	controller.SetWindow(window)

	application := &Application{
		fyneApp:           fyneApp,
		window:            window,
		logger:            log,
		appConfig:         appConfig,
		configPath:        configPath,
		controller:        controller,
		view:              view,
		documentService:   documentService,
		conversionService: conversionService,
		documentRepo:      documentRepo,
		configRepo:        configRepo,
		stateRepo:         stateRepo,
		ctx:               appCtx,
		cancel:            appCancel,
	}

	application.applyTheme()
	application.syncViewOptions()
	application.setupMenus()
	application.setupWindowEvents()
	setupSignalHandling(application)

	log.Info("application initialized", map[string]interface{}{
		"components": []string{"models", "services", "controllers", "views"},
		"theme":      appConfig.Theme(),
	})

	return application, nil
}

// Run shows the main window and blocks until the application exits
func (a *Application) Run() error {
	go a.startPerformanceMonitoring()

	a.window.Show()
	a.fyneApp.Run()
	return nil
}

// syncViewOptions pushes the loaded settings into the option widgets
func (a *Application) syncViewOptions() {
	opts := a.configRepo.Options()
	a.view.SetSerializationOptions(
		convert.DelimiterName(opts.Delimiter),
		opts.QuoteMode.String(),
		encodingDisplayName(opts.Encoding.String()),
		opts.IncludeHeader,
		opts.UseCRLF,
	)
}

// setupWindowEvents configures window lifecycle events
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.initiateShutdown()
		a.window.Close()
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("window closed", nil)
	})
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(a *Application) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		a.logger.Info("system signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		a.initiateShutdown()
		fyne.Do(func() {
			a.fyneApp.Quit()
		})
	}()
}

// startPerformanceMonitoring periodically logs runtime statistics
func (a *Application) startPerformanceMonitoring() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.logPerformanceMetrics()
		case <-a.ctx.Done():
			return
		}
	}
}

// logPerformanceMetrics logs current performance statistics
func (a *Application) logPerformanceMetrics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	docStats := a.documentRepo.GetStats()

	a.logger.Debug("performance metrics", map[string]interface{}{
		"go_memory_mb":    memStats.Alloc / 1024 / 1024,
		"go_gc_runs":      memStats.NumGC,
		"goroutine_count": runtime.NumGoroutine(),
		"has_document":    docStats.HasDocument,
		"document_bytes":  docStats.DocumentSize,
		"document_rows":   docStats.RowCount,
		"result_count":    docStats.ResultCount,
	})
}

// initiateShutdown begins the graceful shutdown process
func (a *Application) initiateShutdown() {
	a.logger.Info("shutdown sequence initiated", nil)
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	a.performShutdownSequence(shutdownCtx)
}

// performShutdownSequence executes the shutdown steps with a timeout
func (a *Application) performShutdownSequence(ctx context.Context) {
	shutdownSteps := []struct {
		name string
		fn   func()
	}{
		{"controller", a.controller.Shutdown},
		{"config save", a.saveConfig},
	}

	for _, step := range shutdownSteps {
		done := make(chan struct{})
		go func() {
			defer close(done)
			step.fn()
		}()

		select {
		case <-done:
			a.logger.Debug("shutdown step completed", map[string]interface{}{
				"step": step.name,
			})
		case <-ctx.Done():
			a.logger.Warning("shutdown step timeout", map[string]interface{}{
				"step": step.name,
			})
			return
		}
	}
}

// saveConfig persists the current settings
func (a *Application) saveConfig() {
	a.appConfig.SetCSVOptions(a.configRepo.Options())
	a.appConfig.SetPreviewMaxRows(a.configRepo.PreviewRows())

	if err := a.appConfig.Save(a.configPath); err != nil {
		a.logger.Error("failed to save config", err, map[string]interface{}{
			"path": a.configPath,
		})
	}
}

// encodingDisplayName maps stored encoding names onto the option widget
// vocabulary, which accepts the dashed spellings.
func encodingDisplayName(name string) string {
	switch name {
	case "utf8-bom":
		return "utf-8-bom"
	case "windows-1252":
		return "windows-1252"
	default:
		return "utf-8"
	}
}
