package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// docxText pulls the raw text out of a DOCX container. The format is a zip
// archive with the document body in word/document.xml; paragraph boundaries
// become newlines, everything else is character data.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open docx container")
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", eris.New("extract: docx has no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", eris.Wrap(err, "extract: open document.xml")
	}
	defer rc.Close()

	return decodeDocumentXML(rc)
}

func decodeDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "extract: decode document.xml")
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			// Paragraphs and explicit breaks separate text runs.
			if t.Name.Local == "p" || t.Name.Local == "br" {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}
