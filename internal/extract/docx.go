package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tenderdesk/tender-extract/constants"
	"github.com/tenderdesk/tender-extract/internal/ocr"
)

// extractDocx reads word/document.xml out of the ZIP container and walks the
// XML tokens, emitting one line per paragraph.
func (e *Extractor) extractDocx(_ context.Context, doc SourceDocument, _ string, _ ocr.ProgressFunc) (string, string, int, []string, error) {
	r, err := zip.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", constants.MethodDocx, 0, nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", constants.MethodDocx, 0, nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", constants.MethodDocx, 0, nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var out strings.Builder
	var current strings.Builder
	inParagraph := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				inParagraph = true
				current.Reset()
			}

		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "tab":
				if inParagraph {
					current.WriteByte(' ')
				}
			case "p":
				if inParagraph {
					inParagraph = false
					text := strings.TrimSpace(current.String())
					if text == "" {
						continue
					}
					if out.Len() > 0 {
						out.WriteByte('\n')
					}
					out.WriteString(text)
				}
			}
		}
	}

	return out.String(), constants.MethodDocx, 0, nil, nil
}
