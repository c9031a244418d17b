package services

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"csvforge/internal/convert"
	"csvforge/internal/models"
)

// ConversionService runs JSON to CSV conversions in the background.
type ConversionService struct {
	documentRepo *models.DocumentRepository
	configRepo   *models.ConversionConfiguration
	stateRepo    *models.ConversionStateRepository
	workerPool   chan struct{}
}

// NewConversionService creates a new conversion service.
func NewConversionService(
	documentRepo *models.DocumentRepository,
	configRepo *models.ConversionConfiguration,
	stateRepo *models.ConversionStateRepository,
) *ConversionService {
	workers := make(chan struct{}, runtime.NumCPU())
	for i := 0; i < runtime.NumCPU(); i++ {
		workers <- struct{}{}
	}

	return &ConversionService{
		documentRepo: documentRepo,
		configRepo:   configRepo,
		stateRepo:    stateRepo,
		workerPool:   workers,
	}
}

// Convert tabulates the loaded document and serializes it to CSV using the
// current configuration. The result is stored in the document repository.
func (cs *ConversionService) Convert(ctx context.Context) (*models.ConversionResult, error) {
	doc := cs.documentRepo.GetDocument()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	if cs.stateRepo.IsConverting() {
		return nil, fmt.Errorf("conversion already in progress")
	}

	opts := cs.configRepo.Options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	cs.stateRepo.StartConversion()

	select {
	case <-cs.workerPool:
		defer func() { cs.workerPool <- struct{}{} }()
	case <-ctx.Done():
		cs.stateRepo.CancelConversion()
		return nil, ctx.Err()
	}

	startTime := time.Now()
	token := cs.stateRepo.GetCancellationToken()

	result, err := cs.convertInternal(ctx, doc, opts, token)
	if err != nil {
		cs.stateRepo.CancelConversion()
		return nil, err
	}
	cs.stateRepo.CompleteConversion()

	result.Duration = time.Since(startTime)
	stored := cs.documentRepo.AddResult(*result)
	return &stored, nil
}

func (cs *ConversionService) convertInternal(
	ctx context.Context,
	doc *models.Document,
	opts convert.Options,
	token *models.CancellationToken,
) (*models.ConversionResult, error) {
	cs.stateRepo.UpdateProgress("Flattening document", 0.2)

	if err := checkCancellation(ctx, token); err != nil {
		return nil, err
	}

	// Re-tabulate from the decoded root so a stale preview table cannot
	// leak into the output.
	table, err := convert.Tabulate(doc.Root)
	if err != nil {
		return nil, err
	}

	cs.stateRepo.UpdateProgress("Selecting columns", 0.4)
	columns := table.Project(opts.Columns)

	if err := checkCancellation(ctx, token); err != nil {
		return nil, err
	}

	cs.stateRepo.UpdateProgress("Serializing CSV", 0.9)

	csv, err := convert.EncodeToBytes(table, opts)
	if err != nil {
		return nil, err
	}

	cs.stateRepo.UpdateProgress("Finishing", 1.0)

	return &models.ConversionResult{
		CSV:         csv,
		Table:       table,
		Options:     opts,
		RowCount:    len(table.Rows),
		ColumnCount: len(columns),
	}, nil
}

func checkCancellation(ctx context.Context, token *models.CancellationToken) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if token.IsCancelled() {
		return fmt.Errorf("conversion cancelled")
	}
	return nil
}
