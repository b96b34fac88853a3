// Package render writes a question set as a printable PDF, an HTML page or
// JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
)

// Title heads every printable rendition.
const Title = "SOAL UJIAN"

// Subtitle describes the set, e.g. "Jenis: Essay | Total Soal: 3".
func Subtitle(kind generate.Kind, total int) string {
	return fmt.Sprintf("Jenis: %s | Total Soal: %d", kind.Label(), total)
}

// OptionLabel returns the letter prefix of the i-th option, counting from
// zero: "a.", "b.", ...
func OptionLabel(i int) string {
	return string(rune('a'+i)) + "."
}

type jsonQuiz struct {
	Type      generate.Kind        `json:"type"`
	Label     string               `json:"label"`
	Total     int                  `json:"total"`
	Questions generate.QuestionSet `json:"questions"`
}

// JSON writes the set as an indented JSON object.
func JSON(w io.Writer, kind generate.Kind, qs generate.QuestionSet) error {
	if qs == nil {
		qs = generate.QuestionSet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jsonQuiz{Type: kind, Label: kind.Label(), Total: len(qs), Questions: qs})
}
