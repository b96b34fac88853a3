package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns the plain text of every page, one page per line group.
func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= r.NumPage(); pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(pageNr)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
