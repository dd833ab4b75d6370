// Package ocr wraps the external PDF toolchain (poppler + tesseract) used
// for digital text extraction and the OCR escalation path.
package ocr

import (
	"context"
	"os/exec"
	"time"

	"github.com/sells-group/foresight-cli/internal/config"
)

// Toolchain runs the page-rasterizer and OCR binaries. Absence of the
// binaries on PATH is a valid "no OCR" state, reported by Available.
type Toolchain struct {
	pdfToText string
	pdfInfo   string
	pdfToPpm  string
	tesseract string
	languages string
	timeout   time.Duration
}

// New builds a Toolchain from config. Empty paths fall back to the
// conventional binary names resolved via PATH.
func New(cfg config.OCRConfig, toolTimeout time.Duration) *Toolchain {
	t := &Toolchain{
		pdfToText: orDefault(cfg.PdfToTextPath, "pdftotext"),
		pdfInfo:   orDefault(cfg.PdfInfoPath, "pdfinfo"),
		pdfToPpm:  orDefault(cfg.PdfToPpmPath, "pdftoppm"),
		tesseract: orDefault(cfg.TesseractPath, "tesseract"),
		languages: orDefault(cfg.Languages, "fas+eng"),
		timeout:   toolTimeout,
	}
	if t.timeout <= 0 {
		t.timeout = 120 * time.Second
	}
	return t
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// TextLayerAvailable reports whether digital PDF extraction can run.
func (t *Toolchain) TextLayerAvailable() bool {
	return commandAvailable(t.pdfToText)
}

// OCRAvailable reports whether the OCR escalation path can run. Both the
// rasterizer and the OCR engine must be present.
func (t *Toolchain) OCRAvailable() bool {
	return commandAvailable(t.pdfToPpm) && commandAvailable(t.tesseract)
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (t *Toolchain) toolContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.timeout)
}
