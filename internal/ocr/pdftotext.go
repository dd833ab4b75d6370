package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"
)

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (t *Toolchain) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	ctx, cancel := t.toolContext(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.pdfToText, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}

var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// PageCount reads the page count via pdfinfo. Returns 0 (not an error) when
// pdfinfo is missing or its output has no Pages line, so callers can still
// proceed with a degraded scanned heuristic.
func (t *Toolchain) PageCount(ctx context.Context, pdfPath string) int {
	if !commandAvailable(t.pdfInfo) {
		return 0
	}

	ctx, cancel := t.toolContext(ctx)
	defer cancel()

	out, err := exec.CommandContext(ctx, t.pdfInfo, pdfPath).Output()
	if err != nil {
		return 0
	}

	m := pagesLine.FindSubmatch(out)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0
	}
	return n
}
