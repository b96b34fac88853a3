// Package testdoc builds small DOCX and PDF documents for tests.
package testdoc

import (
	"archive/zip"
	"bytes"
	"html"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// Docx returns a minimal .docx with one paragraph per argument.
func Docx(tb testing.TB, paragraphs ...string) []byte {
	tb.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(html.EscapeString(p))
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		tb.Fatalf("docx: %v", err)
	}
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`))
	if err != nil {
		tb.Fatalf("docx: %v", err)
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("docx: %v", err)
	}
	return buf.Bytes()
}

// PDF returns a one-page PDF with one text line per argument.
func PDF(tb testing.TB, lines ...string) []byte {
	tb.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 10)
	doc.AddPage()
	for _, l := range lines {
		doc.Cell(0, 6, l)
		doc.Ln(6)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		tb.Fatalf("pdf: %v", err)
	}
	return buf.Bytes()
}

// Material is a short lecture text with two sentences usable for both
// question kinds and a heading that is filtered out.
var Material = []string{
	"BAB I PENDAHULUAN",
	"Sistem adalah kumpulan komponen yang saling berhubungan untuk mencapai tujuan bersama.",
	"Fungsi router adalah meneruskan paket data antar jaringan yang berbeda.",
}
