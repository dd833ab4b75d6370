package extract

import "github.com/rotisserie/eris"

// Classified extraction failures. Input errors mean the caller sent
// something unusable (4xx-equivalent); integrity errors mean the source
// cannot be trusted and the job must fail without retries.
var (
	ErrNoInput           = eris.New("extract: no text or file provided")
	ErrUnsupportedFormat = eris.New("extract: unsupported file format")
	ErrBinaryInput       = eris.New("extract: file looks binary and cannot be read as text")
	ErrTextTooShort      = eris.New("extract: not enough usable text found")
	ErrNoOCR             = eris.New("extract: extracted text is insufficient and no OCR toolchain is available; provide a searchable PDF or a text version")
	ErrCorruptExtraction = eris.New("extract: extracted text contains PDF internal structure")
)

// IsInputError reports whether err is caused by unusable caller input.
func IsInputError(err error) bool {
	for _, sentinel := range []error{ErrNoInput, ErrUnsupportedFormat, ErrBinaryInput, ErrTextTooShort, ErrNoOCR} {
		if eris.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsIntegrityError reports whether err means the extraction itself cannot
// be trusted.
func IsIntegrityError(err error) bool {
	return eris.Is(err, ErrCorruptExtraction)
}
