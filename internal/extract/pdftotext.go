package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
	layout  bool
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
// With layout set, table rows keep their cells on one line.
func NewPdfToText(binPath string, layout bool) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath, layout: layout}
}

func (p *PdfToText) args(pdfPath string) []string {
	args := make([]string, 0, 3)
	if p.layout {
		args = append(args, "-layout")
	}
	return append(args, pdfPath, "-")
}

// ExtractText runs pdftotext on the given PDF and returns stdout. Pages are
// separated by form feeds.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return "", eris.Wrapf(err, "extract: stat %s", pdfPath)
	}

	cmd := exec.CommandContext(ctx, p.binPath, p.args(pdfPath)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "extract: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}
