package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/route-formatter/internal/adapter/xlsx"
	"github.com/couchcryptid/route-formatter/internal/config"
	"github.com/couchcryptid/route-formatter/internal/domain"
	"github.com/couchcryptid/route-formatter/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// uploadField is the multipart form field carrying the manifest.
const uploadField = "file"

// RouteProcessor converts one uploaded manifest into a formatted route.
type RouteProcessor interface {
	Process(ctx context.Context, up pipeline.Upload) (domain.Result, error)
}

// Server exposes the upload endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	processor  RouteProcessor
	maxUpload  int64
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/routes, /healthz, /readyz, and
// /metrics routes. Uploads larger than cfg.MaxUploadBytes are rejected and a
// run that outlasts cfg.WriteTimeout loses its response.
func NewServer(cfg *config.Config, ready sharedobs.ReadinessChecker, processor RouteProcessor, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
		processor: processor,
		maxUpload: cfg.MaxUploadBytes,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/routes", s.handleRoutes)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds "+strconv.FormatInt(s.maxUpload, 10)+" bytes")
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form field \""+uploadField+"\"")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	res, err := s.processor.Process(r.Context(), pipeline.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case domain.IsUserError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		s.logger.Error("route processing failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h := w.Header()
	h.Set("Content-Type", xlsx.ContentType)
	h.Set("Content-Disposition", `attachment; filename="`+xlsx.FileName+`"`)
	h.Set("X-Run-ID", res.RunID)
	h.Set("X-Skipped-Rows", strconv.Itoa(res.Skipped))
	for _, warning := range res.Warnings {
		h.Add("X-Route-Warning", warning)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Workbook); err != nil {
		s.logger.Warn("write response failed", "run_id", res.RunID, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
