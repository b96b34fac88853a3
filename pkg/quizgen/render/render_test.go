package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/cognicore/quizgen/pkg/quizgen/category"
	"github.com/cognicore/quizgen/pkg/quizgen/extract"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
)

var (
	mcqSet = generate.QuestionSet{{
		Prompt:   "Perhatikan pernyataan berikut:\n\n\"Router adalah perangkat.\"\n\napa yang dimaksud dari pernyataan tersebut …",
		Options:  []string{"fungsi", "definisi", "tujuan", "manfaat"},
		Answer:   "definisi",
		Kind:     generate.KindMCQ,
		Category: category.Definition,
	}}
	essaySet = generate.QuestionSet{
		{Prompt: "Jelaskan sistem berdasarkan materi di atas!", Answer: "Sistem adalah kumpulan komponen.", Kind: generate.KindEssay},
		{Prompt: "Uraikan router berdasarkan materi di atas!", Answer: "Fungsi router adalah meneruskan paket.", Kind: generate.KindEssay},
	}
)

func TestSubtitleAndOptionLabel(t *testing.T) {
	assert.Equal(t, "Jenis: Essay | Total Soal: 2", Subtitle(generate.KindEssay, 2))
	assert.Equal(t, "Jenis: Pilihan Ganda (PG) | Total Soal: 1", Subtitle(generate.KindMCQ, 1))
	assert.Equal(t, "a.", OptionLabel(0))
	assert.Equal(t, "d.", OptionLabel(3))
}

func pdfText(t *testing.T, data []byte) string {
	t.Helper()
	text, err := extract.New(extract.Config{}).Extract(context.Background(), extract.RawDocument{Format: extract.FormatPDF, Data: data})
	require.NoError(t, err)
	return text
}

func TestPDFMultipleChoice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, generate.KindMCQ, mcqSet))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	text := pdfText(t, buf.Bytes())
	assert.Contains(t, text, Title)
	assert.Contains(t, text, "Jenis: Pilihan Ganda (PG) | Total Soal: 1")
	assert.Contains(t, text, "1. Perhatikan pernyataan berikut:")
	for i, opt := range mcqSet[0].Options {
		assert.Contains(t, text, OptionLabel(i)+" "+opt)
	}
	assert.NotContains(t, text, "Jawaban:")
}

func TestPDFEssay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, generate.KindEssay, essaySet))

	text := pdfText(t, buf.Bytes())
	assert.Contains(t, text, "Jenis: Essay | Total Soal: 2")
	assert.Contains(t, text, "2. Uraikan router berdasarkan materi di atas!")
	assert.Equal(t, 2, strings.Count(text, "Jawaban:"))
	assert.NotContains(t, text, "Sistem adalah kumpulan komponen.")
}

func TestHTMLResultPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{
		Kind:        generate.KindMCQ,
		Questions:   mcqSet,
		Material:    "Router adalah perangkat <jaringan>.",
		DownloadURL: "/download",
		BackURL:     "/",
	}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>SOAL UJIAN</h1>")
	assert.Contains(t, out, "Jenis: Pilihan Ganda (PG) | Total Soal: 1")
	assert.Contains(t, out, `<a href="/download">Unduh PDF</a>`)
	assert.Contains(t, out, "perangkat &lt;jaringan&gt;.")
	for _, opt := range mcqSet[0].Options {
		assert.Contains(t, out, "<li>"+opt+"</li>")
	}

	doc, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, countClass(doc, "question"))
}

func TestHTMLEscapesQuestions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, Page{Kind: generate.KindEssay, Questions: generate.QuestionSet{{
		Prompt: "Jelaskan <script>alert(1)</script> berdasarkan materi di atas!",
		Answer: "x",
		Kind:   generate.KindEssay,
	}}}))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
	assert.NotContains(t, buf.String(), "Unduh PDF")
}

func TestUploadForm(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, UploadForm(&buf, Form{Error: "Format file hanya PDF atau DOCX", MinCount: 1, MaxCount: 50}))
	out := buf.String()

	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `name="jenis_soal"`)
	assert.Contains(t, out, `name="jumlah_soal"`)
	assert.Contains(t, out, `max="50"`)
	assert.Contains(t, out, `value="5"`)
	assert.Contains(t, out, "Format file hanya PDF atau DOCX")

	buf.Reset()
	require.NoError(t, UploadForm(&buf, Form{MinCount: 1, MaxCount: 50}))
	assert.NotContains(t, buf.String(), `class="error"`)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, generate.KindEssay, essaySet))

	var got struct {
		Type      string `json:"type"`
		Total     int    `json:"total"`
		Questions []struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
			Answer   string   `json:"answer"`
			Type     string   `json:"type"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "essay", got.Type)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, "Jelaskan sistem berdasarkan materi di atas!", got.Questions[0].Question)
	assert.Nil(t, got.Questions[0].Options)
	assert.Equal(t, "essay", got.Questions[1].Type)

	buf.Reset()
	require.NoError(t, JSON(&buf, generate.KindMCQ, nil))
	assert.Contains(t, buf.String(), `"questions": []`)
}

func countClass(n *html.Node, class string) int {
	count := 0
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "class" && a.Val == class {
				count++
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += countClass(c, class)
	}
	return count
}
