// Package api exposes the aged accounts normalizer over HTTP.
// The CLI starts it with `agedfix serve`; it can also be mounted programmatically via Handler.
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Jobeer1/agedfix/export"
	"github.com/Jobeer1/agedfix/extractor"
	"github.com/Jobeer1/agedfix/extractor/aged"
)

// Config holds the API server configuration
type Config struct {
	Port          string
	LogPrefix     string
	MaxUploadSize int64
}

// DefaultConfig returns the default API configuration
func DefaultConfig() Config {
	return Config{
		Port:          ":8080",
		LogPrefix:     "API: ",
		MaxUploadSize: 32 << 20,
	}
}

// Server represents the HTTP API server
type Server struct {
	config   Config
	pipeline *aged.Pipeline
	mux      *http.ServeMux
}

// New creates a server that normalizes uploads with p.
func New(cfg Config, p *aged.Pipeline) *Server {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultConfig().MaxUploadSize
	}
	s := &Server{
		config:   cfg,
		pipeline: p,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/normalize", s.handleNormalize)
	s.mux.HandleFunc("/health", s.handleHealth)
}

// Handler returns the http.Handler for the server
// This allows the server to be used with custom http.Server configurations
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server (blocking)
func (s *Server) Start() error {
	log.Printf("%sStarting server on %s", s.config.LogPrefix, s.config.Port)
	return http.ListenAndServe(s.config.Port, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// NormalizeOptions holds the per request options
type NormalizeOptions struct {
	Delimiter aged.Delimiter
	Format    export.Format
	TextOnly  bool
}

// parseNormalizeOptions reads options from form values, falling back to the query string.
func (s *Server) parseNormalizeOptions(r *http.Request) (NormalizeOptions, error) {
	var opts NormalizeOptions
	var err error

	opts.Delimiter, err = aged.ParseDelimiter(coalesce(r.FormValue("delimiter"), r.URL.Query().Get("delimiter")))
	if err != nil {
		return opts, err
	}
	opts.Format, err = export.ParseFormat(coalesce(r.FormValue("format"), r.URL.Query().Get("format")))
	if err != nil {
		return opts, err
	}
	opts.TextOnly = r.FormValue("text_only") == "true" || r.URL.Query().Get("text_only") == "true"
	return opts, nil
}

// handleNormalize handles report upload requests
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	log.Printf("%sReceived request from %s", s.config.LogPrefix, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
	if err := r.ParseMultipartForm(s.config.MaxUploadSize); err != nil {
		log.Printf("%sError parsing multipart form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts, err := s.parseNormalizeOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		log.Printf("%sError getting file from form: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not get uploaded file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("%sError reading file bytes: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not read file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if opts.TextOnly {
		s.handleTextOnly(w, bytes.NewReader(fileBytes), handler.Filename)
		return
	}

	report, err := extractor.ProcessReader(s.pipeline, bytes.NewReader(fileBytes), handler.Filename, opts.Delimiter)
	if err != nil {
		log.Printf("%sError normalizing %s: %v", s.config.LogPrefix, handler.Filename, err)
		http.Error(w, "Could not normalize file: "+err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("%s%s: %d records, %d warnings", s.config.LogPrefix, report.Source, len(report.Records), len(report.Warnings))

	if opts.Format == export.FormatJSON {
		w.Header().Set("Content-Type", export.FormatJSON.ContentType())
		export.WriteJSON(w, report)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, opts.Format, report.Records); err != nil {
		http.Error(w, "Could not write output: "+err.Error(), http.StatusInternalServerError)
		return
	}
	name := strings.TrimSuffix(report.Source, filepath.Ext(report.Source)) + "." + string(opts.Format)
	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(buf.Bytes())
}

// handleTextOnly returns the cleaned lines the pipeline would see.
func (s *Server) handleTextOnly(w http.ResponseWriter, reader io.Reader, filename string) {
	lines, err := extractor.ReadLines(reader, filename)
	if err != nil || len(lines) < 1 {
		log.Printf("%sError extracting text: %v", s.config.LogPrefix, err)
		http.Error(w, "Could not extract text from file", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"filename": filename,
		"text":     strings.Join(lines, "\n"),
	})
}

// coalesce returns the first non-empty string
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
