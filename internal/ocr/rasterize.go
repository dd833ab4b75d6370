package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/foresight-cli/internal/resilience"
)

// RunOCR rasterizes each page of the PDF to an image and runs the OCR
// engine over them in page order, concatenating the results. The temporary
// working directory is removed on success and failure alike.
func (t *Toolchain) RunOCR(ctx context.Context, pdfPath string) (string, error) {
	tempDir, err := os.MkdirTemp("", "foresight-ocr-")
	if err != nil {
		return "", eris.Wrap(err, "ocr: create temp dir")
	}
	defer os.RemoveAll(tempDir)

	if err := t.rasterize(ctx, pdfPath, filepath.Join(tempDir, "page")); err != nil {
		return "", err
	}

	pages, err := pageImages(tempDir)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", eris.New("ocr: rasterizer produced no pages")
	}

	var parts []string
	for _, page := range pages {
		text, err := t.recognize(ctx, page)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n"), nil
}

func (t *Toolchain) rasterize(ctx context.Context, pdfPath, prefix string) error {
	ctx, cancel := t.toolContext(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.pdfToPpm, "-png", pdfPath, prefix)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return resilience.NewTransientError(eris.Wrap(err, "ocr: pdftoppm timed out"), 0)
		}
		return eris.Wrapf(err, "ocr: pdftoppm failed: %s", stderr.String())
	}
	return nil
}

func (t *Toolchain) recognize(ctx context.Context, imagePath string) (string, error) {
	ctx, cancel := t.toolContext(ctx)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.tesseract, imagePath, "stdout", "-l", t.languages)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", resilience.NewTransientError(eris.Wrapf(err, "ocr: tesseract timed out on %s", imagePath), 0)
		}
		return "", eris.Wrapf(err, "ocr: tesseract failed on %s: %s", imagePath, stderr.String())
	}
	return stdout.String(), nil
}

func pageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: read temp dir")
	}

	var pages []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "page-") && strings.HasSuffix(name, ".png") {
			pages = append(pages, filepath.Join(dir, name))
		}
	}
	sort.Strings(pages)
	return pages, nil
}
