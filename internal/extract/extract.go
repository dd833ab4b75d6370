// Package extract converts heterogeneous input files (scanned or digital
// PDF, DOCX, plain text) into clean text plus extraction metadata,
// escalating to OCR when digital extraction yields too little signal.
package extract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/foresight-cli/internal/config"
	"github.com/sells-group/foresight-cli/internal/model"
	"github.com/sells-group/foresight-cli/internal/ocr"
)

// Extractor identities reported in ExtractionMeta.
const (
	ExtractorPDF      = "pdftotext"
	ExtractorOCR      = "ocr"
	ExtractorDocx     = "docx"
	ExtractorPlain    = "plain-text"
	ExtractorFallback = "fallback-text"
)

// Service runs the extraction cascade.
type Service struct {
	cfg   config.ExtractConfig
	tools *ocr.Toolchain
}

// NewService builds an extraction service. tools may not be nil; toolchain
// absence is discovered per call via PATH probes.
func NewService(cfg config.ExtractConfig, tools *ocr.Toolchain) *Service {
	return &Service{cfg: cfg, tools: tools}
}

// Extract decides the file type from the name and magic bytes and runs the
// matching extraction branch. Every successful branch returns cleaned text
// and a fully populated ExtractionMeta.
func (s *Service) Extract(ctx context.Context, data []byte, fileName string) (string, model.ExtractionMeta, error) {
	if len(data) == 0 {
		return "", model.ExtractionMeta{}, ErrNoInput
	}

	switch {
	case isPDF(data, fileName):
		return s.extractPDF(ctx, data, fileName)
	case hasExt(fileName, ".docx"):
		return s.extractDocx(data, fileName)
	case hasExt(fileName, ".doc"):
		return "", model.ExtractionMeta{}, eris.Wrap(ErrUnsupportedFormat, "legacy .doc is not supported, convert to .docx")
	default:
		return s.extractPlain(data, fileName)
	}
}

func isPDF(data []byte, fileName string) bool {
	return hasExt(fileName, ".pdf") || bytes.HasPrefix(data, []byte("%PDF-"))
}

func hasExt(fileName, ext string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ext)
}

func (s *Service) extractPDF(ctx context.Context, data []byte, fileName string) (string, model.ExtractionMeta, error) {
	pdfPath, cleanup, err := writeTemp(data)
	if err != nil {
		return "", model.ExtractionMeta{}, err
	}
	defer cleanup()

	pages := s.tools.PageCount(ctx, pdfPath)

	var cleaned string
	if s.tools.TextLayerAvailable() {
		raw, err := s.tools.ExtractText(ctx, pdfPath)
		if err != nil {
			zap.L().Warn("pdf text layer extraction failed", zap.String("file", fileName), zap.Error(err))
		}
		cleaned = collapse(raw)
	}

	if hasPDFInternals(cleaned) {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrCorruptExtraction, "file %s", fileName)
	}

	override := s.smallDocOverride(cleaned, pages)
	meta := model.ExtractionMeta{
		Extractor:    ExtractorPDF,
		Chars:        len([]rune(cleaned)),
		Pages:        pages,
		LooksScanned: s.looksScanned(cleaned, pages) && !override,
		FileName:     fileName,
	}
	zap.L().Info("pdf text extracted",
		zap.String("file", fileName),
		zap.Int("chars", meta.Chars),
		zap.Int("pages", meta.Pages),
		zap.Bool("looks_scanned", meta.LooksScanned),
	)

	if len([]rune(cleaned)) >= s.cfg.MinTextChars || override {
		return cleaned, meta, nil
	}

	if !s.tools.OCRAvailable() {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrNoOCR, "file %s", fileName)
	}
	return s.extractOCR(ctx, pdfPath, pages, fileName)
}

func (s *Service) extractOCR(ctx context.Context, pdfPath string, pages int, fileName string) (string, model.ExtractionMeta, error) {
	raw, err := s.tools.RunOCR(ctx, pdfPath)
	if err != nil {
		return "", model.ExtractionMeta{}, eris.Wrapf(err, "extract: ocr escalation for %s", fileName)
	}

	cleaned := collapse(raw)
	// OCR output is noisy, so the usable-length bar is higher than for
	// direct extraction.
	if len([]rune(cleaned)) < s.cfg.MinOCRChars {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrTextTooShort, "ocr produced %d chars for %s", len([]rune(cleaned)), fileName)
	}

	meta := model.ExtractionMeta{
		Extractor:    ExtractorOCR,
		Chars:        len([]rune(cleaned)),
		Pages:        pages,
		LooksScanned: true,
		FileName:     fileName,
	}
	zap.L().Info("ocr extraction completed",
		zap.String("file", fileName),
		zap.Int("chars", meta.Chars),
		zap.Int("pages", meta.Pages),
	)
	return cleaned, meta, nil
}

func (s *Service) extractDocx(data []byte, fileName string) (string, model.ExtractionMeta, error) {
	raw, err := docxText(data)
	if err != nil {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrUnsupportedFormat, "docx %s: %v", fileName, err)
	}

	cleaned := collapse(raw)
	if len([]rune(cleaned)) < s.cfg.MinUsableChars {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrTextTooShort, "docx %s", fileName)
	}

	meta := model.ExtractionMeta{
		Extractor: ExtractorDocx,
		Chars:     len([]rune(cleaned)),
		FileName:  fileName,
	}
	zap.L().Info("docx text extracted", zap.String("file", fileName), zap.Int("chars", meta.Chars))
	return cleaned, meta, nil
}

func (s *Service) extractPlain(data []byte, fileName string) (string, model.ExtractionMeta, error) {
	text := string(data)
	if s.looksBinary(text) {
		if fileName == "" || hasExt(fileName, ".txt") {
			return "", model.ExtractionMeta{}, eris.Wrapf(ErrBinaryInput, "file %s", fileName)
		}
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrUnsupportedFormat, "file %s", fileName)
	}

	cleaned := collapse(text)
	if len([]rune(cleaned)) < s.cfg.MinUsableChars {
		return "", model.ExtractionMeta{}, eris.Wrapf(ErrTextTooShort, "file %s", fileName)
	}

	extractor := ExtractorPlain
	if fileName == "" {
		extractor = ExtractorFallback
	}
	meta := model.ExtractionMeta{
		Extractor: extractor,
		Chars:     len([]rune(cleaned)),
		FileName:  fileName,
	}
	zap.L().Info("plain text extracted", zap.String("file", fileName), zap.Int("chars", meta.Chars))
	return cleaned, meta, nil
}

func writeTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "foresight-*.pdf")
	if err != nil {
		return "", nil, eris.Wrap(err, "extract: create temp pdf")
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, eris.Wrap(err, "extract: write temp pdf")
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, eris.Wrap(err, "extract: close temp pdf")
	}
	return path, func() { os.Remove(path) }, nil
}
