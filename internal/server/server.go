// Package server provides the browser upload UI. Each upload is analyzed within its own
// request; nothing is kept between requests.
package server

import (
	"context"
	"embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/KaramelBytes/edaloom/internal/analysis"
	"github.com/KaramelBytes/edaloom/internal/dataset"
	"github.com/KaramelBytes/edaloom/internal/parser"
	"github.com/KaramelBytes/edaloom/internal/visualize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html
var templateFiles embed.FS

const pageTitle = "Exploratory Data Analysis"

// Config holds server settings.
type Config struct {
	MaxUploadBytes int64
	Ingest         dataset.Options
	HeadRows       int
	Charts         bool
	Logger         *slog.Logger
}

// Server is the upload UI.
type Server struct {
	router    *chi.Mux
	cfg       Config
	templates *template.Template
	log       *slog.Logger
}

// New creates the server and its routes.
func New(cfg Config) (*Server, error) {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{router: chi.NewRouter(), cfg: cfg, templates: tpl, log: log}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/analyze", s.handleAnalyze)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("upload UI listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title       string
		MaxUploadMB int64
	}{pageTitle, s.cfg.MaxUploadBytes >> 20}
	s.render(w, "index", data)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := s.log.With("request_id", middleware.GetReqID(r.Context()))
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, fmt.Sprintf("upload exceeds %d bytes", tooBig.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ds, err := parser.Load(file, hdr.Filename, s.cfg.Ingest)
	if err != nil {
		log.Warn("ingestion failed", "file", hdr.Filename, "error", err)
		http.Error(w, "could not read "+hdr.Filename+": "+err.Error(), http.StatusBadRequest)
		return
	}

	rep := analysis.Run(ds, analysis.Options{
		HeadRows: s.cfg.HeadRows,
		Pairplot: r.FormValue("pairplot") != "",
		Logger:   log,
	})
	if s.cfg.Charts {
		if err := visualize.Render(rep, visualize.Options{Logger: log}); err != nil {
			log.Error("render figures", "error", err)
			http.Error(w, "render figures failed", http.StatusInternalServerError)
			return
		}
	}

	body := RenderHTML(rep.Markdown(dataURI))
	s.render(w, "report", struct {
		Title string
		Body  template.HTML
	}{pageTitle + ": " + rep.Name, body})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("execute template", "template", name, "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// RenderHTML converts report Markdown to an HTML fragment.
func RenderHTML(md string) template.HTML {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions | mdparser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

func dataURI(f analysis.Figure) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(f.PNG)
}
