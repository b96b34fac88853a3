package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
)

const (
	lineHeight   = 6.0
	optionIndent = 8.0
)

// PDF writes an A4 exam sheet: title, subtitle and numbered questions.
// Multiple-choice questions list lettered options; essay questions get a
// blank answer area.
func PDF(w io.Writer, kind generate.Kind, qs generate.QuestionSet) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(Title, true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(0x1f, 0x77, 0xd2)
	doc.CellFormat(0, 10, Title, "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, lineHeight, tr(Subtitle(kind, len(qs))), "", 1, "L", false, 0, "")
	doc.Ln(lineHeight)

	left, _, _, _ := doc.GetMargins()
	for i, q := range qs {
		doc.SetFont("Helvetica", "B", 11)
		doc.MultiCell(0, lineHeight, tr(fmt.Sprintf("%d. %s", i+1, q.Prompt)), "", "L", false)

		doc.SetFont("Helvetica", "", 11)
		if q.Kind == generate.KindMCQ {
			for j, opt := range q.Options {
				doc.SetX(left + optionIndent)
				doc.CellFormat(0, lineHeight, tr(OptionLabel(j)+" "+opt), "", 1, "L", false, 0, "")
			}
			doc.Ln(lineHeight)
		} else {
			doc.SetFont("Helvetica", "I", 11)
			doc.CellFormat(0, lineHeight, "Jawaban:", "", 1, "L", false, 0, "")
			doc.Ln(lineHeight * 3)
		}
		doc.Ln(lineHeight / 2)
	}

	return doc.Output(w)
}
