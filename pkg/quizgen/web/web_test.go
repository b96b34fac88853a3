package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/quizgen/internal/testdoc"
	"github.com/cognicore/quizgen/pkg/quizgen"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/store/memstore"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	svc := quizgen.NewService(quizgen.NewDefault(nil), memstore.New(), nil)
	srv := httptest.NewServer(New(svc, cfg).Routes())
	t.Cleanup(srv.Close)
	return srv
}

// noRedirect keeps the client on the first response.
func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func uploadBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "-" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, client *http.Client, url string, body io.Reader, contentType string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Post(url, contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestIndexServesForm(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `name="jumlah_soal"`)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadFlow(t *testing.T) {
	srv := newTestServer(t, Config{})
	client := &http.Client{CheckRedirect: noRedirect}

	body, ct := uploadBody(t, "materi.docx", testdoc.Docx(t, testdoc.Material...), map[string]string{
		"jenis_soal":  "pg",
		"jumlah_soal": "5",
	})
	resp, _ := post(t, client, srv.URL+"/", body, ct)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/result", resp.Header.Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/result", nil)
	req.AddCookie(cookie)
	res, err := client.Do(req)
	require.NoError(t, err)
	page, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(page), "Jenis: Pilihan Ganda (PG) | Total Soal: 2")
	assert.Contains(t, string(page), "Sistem adalah kumpulan komponen")

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/download", nil)
	req.AddCookie(cookie)
	res, err = client.Do(req)
	require.NoError(t, err)
	pdf, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/pdf", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), DownloadName)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	res, err = client.Get(srv.URL + "/api/sessions/" + cookie.Value)
	require.NoError(t, err)
	js, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(js), `"total": 2`)
}

func TestUploadValidation(t *testing.T) {
	docx := testdoc.Docx(t, testdoc.Material...)
	tests := []struct {
		name     string
		filename string
		data     []byte
		fields   map[string]string
		status   int
		message  string
	}{
		{"missing file", "-", nil, nil, http.StatusBadRequest, "File tidak ditemukan"},
		{"empty filename", "", docx, nil, http.StatusBadRequest, "File"},
		{"wrong extension", "catatan.txt", []byte("teks"), nil, http.StatusBadRequest, "Format file hanya PDF atau DOCX"},
		{"count not a number", "m.docx", docx, map[string]string{"jumlah_soal": "lima"}, http.StatusBadRequest, "Jumlah soal harus berupa angka"},
		{"count too high", "m.docx", docx, map[string]string{"jumlah_soal": "51"}, http.StatusBadRequest, "Jumlah soal harus antara 1–50"},
		{"count zero", "m.docx", docx, map[string]string{"jumlah_soal": "0"}, http.StatusBadRequest, "Jumlah soal harus antara 1–50"},
		{"unknown kind", "m.docx", docx, map[string]string{"jenis_soal": "isian"}, http.StatusBadRequest, "Jenis soal tidak dikenal"},
		{"unreadable document", "m.docx", []byte("rusak"), nil, http.StatusBadRequest, "Dokumen tidak memiliki teks yang dapat dibaca"},
		{"nothing usable", "m.docx", testdoc.Docx(t, "BAB I", "Pendahuluan"), nil, http.StatusBadRequest, "Tidak ada materi yang bisa diproses"},
	}
	srv := newTestServer(t, Config{})
	client := &http.Client{CheckRedirect: noRedirect}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := uploadBody(t, tt.filename, tt.data, tt.fields)
			resp, page := post(t, client, srv.URL+"/", body, ct)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, page, tt.message)
			assert.Empty(t, resp.Cookies())
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	srv := newTestServer(t, Config{MaxUploadBytes: 1 << 20})
	client := &http.Client{CheckRedirect: noRedirect}

	t.Run("file over limit", func(t *testing.T) {
		body, ct := uploadBody(t, "m.pdf", bytes.Repeat([]byte("x"), (1<<20)+10), nil)
		resp, page := post(t, client, srv.URL+"/", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Contains(t, page, "File terlalu besar (maksimal 1 MB)")
	})

	t.Run("body over limit", func(t *testing.T) {
		svc := quizgen.NewService(quizgen.NewDefault(nil), memstore.New(), nil)
		h := New(svc, Config{MaxUploadBytes: 1 << 20}).Routes()

		body, ct := uploadBody(t, "m.pdf", bytes.Repeat([]byte("x"), 3<<20), nil)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "File terlalu besar")
	})
}

func TestResultWithoutSessionRedirects(t *testing.T) {
	srv := newTestServer(t, Config{})
	client := &http.Client{CheckRedirect: noRedirect}

	for _, path := range []string{"/result", "/download"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		req, _ := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "01ARZ3NDEKTSV4RRFFQ69G5FAV"})
		resp, err = client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
	}
}

func TestSessionJSONNotFound(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp, err := http.Get(srv.URL + "/api/sessions/unknown")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "tidak ditemukan"))
}

// brokenWriter accepts headers but fails every body write, like a client
// that went away.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func storedQuiz(t *testing.T, svc *quizgen.Service) *quizgen.Quiz {
	t.Helper()
	quiz, err := svc.Generate(context.Background(), quizgen.Request{
		Name:  "materi.docx",
		Data:  testdoc.Docx(t, testdoc.Material...),
		Kind:  generate.KindEssay,
		Count: 3,
	})
	require.NoError(t, err)
	return quiz
}

func TestSessionJSON(t *testing.T) {
	svc := quizgen.NewService(quizgen.NewDefault(nil), memstore.New(), nil)
	quiz := storedQuiz(t, svc)

	rec := httptest.NewRecorder()
	New(svc, Config{}).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+quiz.Session.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Type  string `json:"type"`
		Total int    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "essay", got.Type)
	assert.Equal(t, len(quiz.Questions), got.Total)
}

func TestSessionJSONLogsWriteFailure(t *testing.T) {
	svc := quizgen.NewService(quizgen.NewDefault(nil), memstore.New(), nil)
	quiz := storedQuiz(t, svc)

	var logs bytes.Buffer
	h := New(svc, Config{Logger: charmlog.New(&logs)}).Routes()
	h.ServeHTTP(brokenWriter{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/api/sessions/"+quiz.Session.ID, nil))

	assert.Contains(t, logs.String(), "render session json")
	assert.Contains(t, logs.String(), "connection reset")
	assert.Contains(t, logs.String(), quiz.Session.ID)
}
