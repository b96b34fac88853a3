package render

import (
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/quizgen/pkg/quizgen/generate"
)

const stylesheet = `
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
h1 { color: #1f77d2; text-align: center; }
.prompt { white-space: pre-line; font-weight: bold; }
.options { list-style: lower-alpha; }
.error { color: #b00020; }
.material { white-space: pre-wrap; background: #f5f5f5; padding: 1rem; }
`

// Page is the data of the result page.
type Page struct {
	Kind        generate.Kind
	Questions   generate.QuestionSet
	Material    string
	DownloadURL string
	BackURL     string
}

// Form is the data of the upload page.
type Form struct {
	Action   string
	Error    string
	MinCount int
	MaxCount int
	Count    int
}

// HTML writes the result page: questions with their options and answer
// keys, a download link and the extracted material.
func HTML(w io.Writer, p Page) error {
	list := el("ol", nil)
	for _, q := range p.Questions {
		item := el("li", attrs("class", "question"),
			el("p", attrs("class", "prompt"), text(q.Prompt)),
		)
		if len(q.Options) > 0 {
			opts := el("ol", attrs("class", "options"))
			for _, o := range q.Options {
				opts.AppendChild(el("li", nil, text(o)))
			}
			item.AppendChild(opts)
		}
		item.AppendChild(el("details", nil,
			el("summary", nil, text("Kunci jawaban")),
			el("p", attrs("class", "answer"), text(q.Answer)),
		))
		list.AppendChild(item)
	}

	body := []*html.Node{
		el("h1", nil, text(Title)),
		el("p", attrs("class", "subtitle"), text(Subtitle(p.Kind, len(p.Questions)))),
		list,
	}
	nav := el("p", attrs("class", "actions"))
	if p.DownloadURL != "" {
		nav.AppendChild(el("a", attrs("href", p.DownloadURL), text("Unduh PDF")))
		nav.AppendChild(text(" "))
	}
	if p.BackURL != "" {
		nav.AppendChild(el("a", attrs("href", p.BackURL), text("Buat soal baru")))
	}
	body = append(body, nav)
	if p.Material != "" {
		body = append(body, el("details", nil,
			el("summary", nil, text("Materi")),
			el("div", attrs("class", "material"), text(p.Material)),
		))
	}

	return html.Render(w, document("Hasil Soal", body...))
}

// UploadForm writes the upload page with an optional error message.
func UploadForm(w io.Writer, f Form) error {
	if f.Action == "" {
		f.Action = "/"
	}
	count := f.Count
	if count == 0 {
		count = 5
	}

	var body []*html.Node
	body = append(body, el("h1", nil, text("Generator Soal")))
	if f.Error != "" {
		body = append(body, el("p", attrs("class", "error", "role", "alert"), text(f.Error)))
	}
	body = append(body, el("form", attrs("method", "post", "action", f.Action, "enctype", "multipart/form-data"),
		el("p", nil,
			el("label", attrs("for", "file"), text("File materi (PDF atau DOCX)")),
			el("br", nil),
			el("input", attrs("type", "file", "id", "file", "name", "file", "accept", ".pdf,.docx", "required", "")),
		),
		el("p", nil,
			el("label", attrs("for", "jenis_soal"), text("Jenis soal")),
			el("br", nil),
			el("select", attrs("id", "jenis_soal", "name", "jenis_soal"),
				el("option", attrs("value", string(generate.KindMCQ)), text(generate.KindMCQ.Label())),
				el("option", attrs("value", string(generate.KindEssay)), text(generate.KindEssay.Label())),
			),
		),
		el("p", nil,
			el("label", attrs("for", "jumlah_soal"), text("Jumlah soal")),
			el("br", nil),
			el("input", attrs(
				"type", "number", "id", "jumlah_soal", "name", "jumlah_soal",
				"min", strconv.Itoa(f.MinCount), "max", strconv.Itoa(f.MaxCount),
				"value", strconv.Itoa(count),
			)),
		),
		el("button", attrs("type", "submit"), text("Buat Soal")),
	))

	return html.Render(w, document("Generator Soal", body...))
}

func document(title string, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(el("html", attrs("lang", "id"),
		el("head", nil,
			el("meta", attrs("charset", "utf-8")),
			el("title", nil, text(title)),
			el("style", nil, text(stylesheet)),
		),
		el("body", nil, body...),
	))
	return doc
}

func el(tag string, attr []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag)), Attr: attr}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// attrs builds attributes from key, value pairs.
func attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}
