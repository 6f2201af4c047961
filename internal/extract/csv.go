package extract

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVText flattens a delimited table into one line per record, cells joined
// by single spaces, so row patterns can be matched the same way as PDF text.
type CSVText struct {
	delimiter rune
}

// NewCSVText creates a CSVText extractor. A zero delimiter means ','.
func NewCSVText(delimiter rune) *CSVText {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVText{delimiter: delimiter}
}

// ExtractText reads every record of the file at path.
func (c *CSVText) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.Comma = c.delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable fields

	var b strings.Builder
	for {
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "extract: csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "extract: csv: read row")
		}

		b.WriteString(joinCells(record))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// joinCells trims each cell and joins the non-empty ones with a space.
func joinCells(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell = strings.TrimSpace(cell); cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}
