// Package web serves the upload form, the result page and the PDF download
// over HTTP.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cognicore/quizgen/pkg/quizgen"
	"github.com/cognicore/quizgen/pkg/quizgen/extract"
	"github.com/cognicore/quizgen/pkg/quizgen/generate"
	"github.com/cognicore/quizgen/pkg/quizgen/internalerr"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/render"
)

const (
	// CookieName holds the ID of the last generated session.
	CookieName = "quizgen_session"
	// DownloadName is the file name of the PDF attachment.
	DownloadName = "soal_ujian.pdf"

	defaultKind  = "pg"
	defaultCount = 5
	// formOverhead is allowed on top of the file limit for the other
	// multipart fields and boundaries.
	formOverhead = 1 << 20
)

// Config configures a Server. Zero values select a 50 MiB upload limit and
// a 1..50 question count.
type Config struct {
	MaxUploadBytes int64
	MinCount       int
	MaxCount       int
	Logger         *charmlog.Logger
}

func (c *Config) defaults() {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = extract.DefaultMaxSize
	}
	if c.MinCount <= 0 {
		c.MinCount = 1
	}
	if c.MaxCount < c.MinCount {
		c.MaxCount = max(50, c.MinCount)
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
}

// Server holds the HTTP handlers.
type Server struct {
	svc *quizgen.Service
	cfg Config
	log *charmlog.Logger
}

// New creates a Server.
func New(svc *quizgen.Service, cfg Config) *Server {
	cfg.defaults()
	return &Server{svc: svc, cfg: cfg, log: cfg.Logger}
}

// Routes returns the router of the web interface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`+"\n")
	})

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleUpload)
	r.Get("/result", s.handleResult)
	r.Get("/download", s.handleDownload)
	r.Get("/api/sessions/{id}", s.handleSessionJSON)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeForm(w, http.StatusOK, "")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeForm(w, http.StatusRequestEntityTooLarge, s.tooLargeMessage())
			return
		}
		s.writeForm(w, http.StatusBadRequest, "File tidak ditemukan")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeForm(w, http.StatusBadRequest, "File tidak ditemukan")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeForm(w, http.StatusBadRequest, "File belum dipilih")
		return
	}
	if _, err := extract.Detect(header.Filename); err != nil {
		s.writeForm(w, http.StatusBadRequest, "Format file hanya PDF atau DOCX")
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		s.writeForm(w, http.StatusRequestEntityTooLarge, s.tooLargeMessage())
		return
	}

	kind, err := generate.ParseKind(formValue(r, "jenis_soal", defaultKind))
	if err != nil {
		s.writeForm(w, http.StatusBadRequest, quizgen.UserMessage(err))
		return
	}

	count, err := strconv.Atoi(formValue(r, "jumlah_soal", strconv.Itoa(defaultCount)))
	if err != nil {
		s.writeForm(w, http.StatusBadRequest, "Jumlah soal harus berupa angka")
		return
	}
	if count < s.cfg.MinCount || count > s.cfg.MaxCount {
		s.writeForm(w, http.StatusBadRequest, fmt.Sprintf("Jumlah soal harus antara %d–%d", s.cfg.MinCount, s.cfg.MaxCount))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.log.Error("read upload", "name", header.Filename, "err", err)
		s.writeForm(w, http.StatusInternalServerError, quizgen.UserMessage(err))
		return
	}

	quiz, err := s.svc.Generate(r.Context(), quizgen.Request{
		Name:  header.Filename,
		Data:  data,
		Kind:  kind,
		Count: count,
	})
	if err != nil {
		if quizgen.IsUserError(err) {
			s.writeForm(w, http.StatusBadRequest, quizgen.UserMessage(err))
			return
		}
		s.log.Error("generate", "name", header.Filename, "err", err)
		s.writeForm(w, http.StatusInternalServerError, quizgen.UserMessage(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    quiz.Session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/result", http.StatusSeeOther)
}

// currentQuiz loads the session named by the cookie. ok is false when the
// caller has been redirected to the form.
func (s *Server) currentQuiz(w http.ResponseWriter, r *http.Request) (*quizgen.Quiz, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	quiz, err := s.svc.Quiz(r.Context(), c.Value)
	if errors.Is(err, internalerr.ErrNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	if err != nil {
		s.log.Error("load session", "session", c.Value, "err", err)
		s.writeForm(w, http.StatusInternalServerError, quizgen.UserMessage(err))
		return nil, false
	}
	if len(quiz.Questions) == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return quiz, true
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.currentQuiz(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, render.Page{
		Kind:        quiz.Session.Variant,
		Questions:   quiz.Questions,
		Material:    quiz.Session.Material,
		DownloadURL: "/download",
		BackURL:     "/",
	}); err != nil {
		s.log.Error("render result", "session", quiz.Session.ID, "err", err)
		http.Error(w, quizgen.UserMessage(err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.currentQuiz(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.PDF(&buf, quiz.Session.Variant, quiz.Questions); err != nil {
		s.log.Error("render pdf", "session", quiz.Session.ID, "err", err)
		http.Error(w, quizgen.UserMessage(err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *Server) handleSessionJSON(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	quiz, err := s.svc.Quiz(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, internalerr.ErrNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, quizgen.UserMessage(err), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := render.JSON(w, quiz.Session.Variant, quiz.Questions); err != nil {
		s.log.Error("render session json", "session", id, "err", err)
	}
}

func (s *Server) writeForm(w http.ResponseWriter, status int, msg string) {
	var buf bytes.Buffer
	if err := render.UploadForm(&buf, render.Form{
		Error:    msg,
		MinCount: s.cfg.MinCount,
		MaxCount: s.cfg.MaxCount,
	}); err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) tooLargeMessage() string {
	return fmt.Sprintf("File terlalu besar (maksimal %d MB)", s.cfg.MaxUploadBytes>>20)
}

func formValue(r *http.Request, key, def string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return def
}

func requestLogger(log *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
