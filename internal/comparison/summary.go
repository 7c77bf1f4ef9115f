package comparison

import (
	"encoding/csv"
	"io"

	"github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/domain/invoice"
	ierr "github.com/josh-hewlett/intellimize-invoice-migration-2025/internal/errors"
)

// WriteBlock appends one CSV-formatted comparison block for the pair to
// w: four aligned rows followed by a blank separator line. The row
// format is load-bearing for compatible report readers.
func (c *Comparator) WriteBlock(w io.Writer, original, migrated *invoice.Invoice) error {
	block := c.BuildBlock(original, migrated)

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.WriteAll(block.Rows()); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to append comparison block to the summary file").
			Mark(ierr.ErrSystem)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to flush comparison block to the summary file").
			Mark(ierr.ErrSystem)
	}

	if _, err := io.WriteString(w, "\n"); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}

	return nil
}
