package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDocx reads word/document.xml from the archive and returns one line
// per paragraph, empty paragraphs included.
func extractDocx(ctx context.Context, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	var (
		sb          strings.Builder
		para        strings.Builder
		inParagraph bool
		inText      bool
	)
	decoder := xml.NewDecoder(rc)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				para.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inParagraph {
					para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inParagraph {
					inParagraph = false
					sb.WriteString(para.String())
					sb.WriteByte('\n')
				}
			}
		}
	}

	return sb.String(), nil
}
