package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/comparison"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/logger"
	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record pairs one source invoice with its migrated counterpart.
// Appended exactly once per successfully processed invoice and never
// mutated afterwards.
type Record struct {
	Original *invoice.Invoice `json:"original"`
	Migrated *invoice.Invoice `json:"migrated"`
}

// FailedRecord pairs one source invoice with the error that aborted its
// migration
type FailedRecord struct {
	Original *invoice.Invoice `json:"originalInvoice"`
	Err      error            `json:"-"`
}

// failedRecordJSON is the serialized shape of a FailedRecord in the
// aggregate errors document
type failedRecordJSON struct {
	InvoiceID  string `json:"invoice_id"`
	CustomerID string `json:"customer_id"`
	Code       string `json:"code"`
	Error      string `json:"error"`
}

// ledgerRow is one line of the per-run migration ledger CSV
type ledgerRow struct {
	SourceInvoiceID      string `csv:"source_invoice_id"`
	DestinationInvoiceID string `csv:"destination_invoice_id"`
	TerminalStatus       string `csv:"terminal_status"`
	Error                string `csv:"error"`
}

// Recorder is the run-scoped, append-only ledger of migration results.
// One instance per run, constructed at process start and explicitly
// passed to its consumers; execution is strictly sequential so no
// locking is needed.
type Recorder struct {
	runID      string
	comparator *comparison.Comparator
	logger     *logger.Logger
	results    []Record
	failed     []FailedRecord
}

func NewRecorder(comparator *comparison.Comparator, logger *logger.Logger) *Recorder {
	return &Recorder{
		runID:      types.GenerateUUIDWithPrefix("run"),
		comparator: comparator,
		logger:     logger,
	}
}

// RunID identifies this run in artifact file names
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends one successful migration result
func (r *Recorder) Record(original, migrated *invoice.Invoice) {
	r.results = append(r.results, Record{Original: original, Migrated: migrated})
}

// RecordFailure appends one failed migration result
func (r *Recorder) RecordFailure(original *invoice.Invoice, err error) {
	r.failed = append(r.failed, FailedRecord{Original: original, Err: err})
}

// Results returns the recorded successful migrations in append order
func (r *Recorder) Results() []Record {
	return r.results
}

// Failures returns the recorded failures in append order
func (r *Recorder) Failures() []FailedRecord {
	return r.failed
}

// WriteResults dumps the raw records to the output directory: per
// successful migration a {id}.original.json and {id}.migrated.json
// pair, and one aggregate errors.json covering every failure.
func (r *Recorder) WriteResults(outputDirectory string) error {
	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create output directory %s", outputDirectory).
			Mark(ierr.ErrSystem)
	}

	for _, result := range r.results {
		originalPath := filepath.Join(outputDirectory, result.Original.ID+".original.json")
		if err := writeJSONFile(originalPath, result.Original); err != nil {
			return err
		}

		migratedPath := filepath.Join(outputDirectory, result.Original.ID+".migrated.json")
		if err := writeJSONFile(migratedPath, result.Migrated); err != nil {
			return err
		}
	}

	failures := make([]failedRecordJSON, 0, len(r.failed))
	for _, failure := range r.failed {
		failures = append(failures, failedRecordJSON{
			InvoiceID:  failure.Original.ID,
			CustomerID: failure.Original.CustomerID,
			Code:       ierr.Code(failure.Err),
			Error:      failure.Err.Error(),
		})
	}

	errorsPath := filepath.Join(outputDirectory, "errors.json")
	if err := writeJSONFile(errorsPath, failures); err != nil {
		return err
	}

	r.logger.Infow("wrote migration results",
		"directory", outputDirectory,
		"migrated", len(r.results),
		"failed", len(r.failed))

	return nil
}

// WriteSummary drives the field comparator over every recorded pair
// into one timestamped CSV file, one comparison block per invoice
func (r *Recorder) WriteSummary(outputDirectory string) error {
	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create output directory %s", outputDirectory).
			Mark(ierr.ErrSystem)
	}

	summaryPath := filepath.Join(
		outputDirectory,
		fmt.Sprintf("summary_%d.csv", time.Now().UnixMilli()),
	)

	file, err := os.Create(summaryPath)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create summary file %s", summaryPath).
			Mark(ierr.ErrSystem)
	}
	defer file.Close()

	for _, result := range r.results {
		if err := r.comparator.WriteBlock(file, result.Original, result.Migrated); err != nil {
			return err
		}
	}

	r.logger.Infow("wrote reconciliation summary", "path", summaryPath)
	return nil
}

// WriteLedger writes the per-run migration ledger: one CSV row per
// processed invoice, successes first, then failures
func (r *Recorder) WriteLedger(outputDirectory string) error {
	if err := os.MkdirAll(outputDirectory, 0o755); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create output directory %s", outputDirectory).
			Mark(ierr.ErrSystem)
	}

	rows := make([]*ledgerRow, 0, len(r.results)+len(r.failed))
	for _, result := range r.results {
		rows = append(rows, &ledgerRow{
			SourceInvoiceID:      result.Original.ID,
			DestinationInvoiceID: result.Migrated.ID,
			TerminalStatus:       result.Migrated.Status.String(),
		})
	}
	for _, failure := range r.failed {
		rows = append(rows, &ledgerRow{
			SourceInvoiceID: failure.Original.ID,
			Error:           failure.Err.Error(),
		})
	}

	ledgerPath := filepath.Join(outputDirectory, fmt.Sprintf("migrations_%s.csv", r.runID))
	file, err := os.Create(ledgerPath)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create ledger file %s", ledgerPath).
			Mark(ierr.ErrSystem)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to write migration ledger").
			Mark(ierr.ErrSystem)
	}

	r.logger.Infow("wrote migration ledger", "path", ledgerPath, "rows", len(rows))
	return nil
}

func writeJSONFile(path string, data any) error {
	serialized, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to serialize %s", path).
			Mark(ierr.ErrSystem)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to write %s", path).
			Mark(ierr.ErrSystem)
	}

	return nil
}
