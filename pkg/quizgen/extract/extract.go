// Package extract turns an uploaded PDF or DOCX payload into plain text.
//
// Pages (PDF) and paragraphs (DOCX) are joined with newlines and a table of
// contents block running from "DAFTAR ISI" to the first "BAB I" is removed.
// The extractor never touches the filesystem; callers hand it bytes.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
)

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

// DefaultMaxSize caps a payload at 50 MiB.
const DefaultMaxSize int64 = 50 << 20

// RawDocument is an uploaded payload and its declared format. Name is
// informational only.
type RawDocument struct {
	Name   string
	Format Format
	Data   []byte
}

// Config configures an Extractor.
type Config struct {
	MaxSize int64
	Logger  *charmlog.Logger
}

func (c *Config) defaults() {
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
}

// Extractor is the text extraction engine.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg}
}

// Detect returns the document format based on file extension.
func Detect(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", internalerr.ErrInvalidInput, filepath.Ext(name))
	}
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{string(FormatPDF), string(FormatDocx)}
}

// Extract returns the normalised text of doc. Every failure, including an
// unsupported format and a document without text, wraps
// internalerr.ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, doc RawDocument) (string, error) {
	if int64(len(doc.Data)) > e.cfg.MaxSize {
		return "", fmt.Errorf("%w: document too large: %d bytes (max %d)", internalerr.ErrExtraction, len(doc.Data), e.cfg.MaxSize)
	}

	e.cfg.Logger.Debug("extracting document", "name", doc.Name, "format", doc.Format, "bytes", len(doc.Data))

	var (
		text string
		err  error
	)
	switch doc.Format {
	case FormatPDF:
		text, err = extractPDF(ctx, doc.Data)
	case FormatDocx:
		text, err = extractDocx(ctx, doc.Data)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", internalerr.ErrExtraction, doc.Format)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s (%s): %v", internalerr.ErrExtraction, doc.Name, doc.Format, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s contains no text", internalerr.ErrExtraction, doc.Name)
	}

	return StripTableOfContents(text), nil
}
