package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/vehicle-dashboard/internal/catalog"
	"github.com/roman-kulish/vehicle-dashboard/internal/pipeline"
	"github.com/roman-kulish/vehicle-dashboard/internal/render"
	"github.com/roman-kulish/vehicle-dashboard/internal/telemetry"
)

// Form fields of POST /api/charts
const (
	fieldFile   = "file"
	fieldChart  = "chart"
	fieldAll    = "all"
	fieldFormat = "format"

	multipartMemory = 8 << 20
)

var contentTypes = map[render.Format]string{
	render.FormatJSON: "application/json",
	render.FormatHTML: "text/html; charset=utf-8",
	render.FormatText: "text/plain; charset=utf-8",
}

// Kind describes one chart kind in GET /api/kinds.
type Kind struct {
	Number      int                `json:"number"`
	ID          catalog.KindID     `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Required    []telemetry.Column `json:"required"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "OK")
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	defs := s.pipeline.Registry().All()

	kinds := make([]Kind, len(defs))
	for i, def := range defs {
		kinds[i] = Kind{
			Number:      def.Number,
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Required:    def.Required,
		}
	}
	respondWithJSON(w, s.logger, http.StatusOK, kinds)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(w, s.logger, NewAPIError(ErrorCodePayloadTooLarge,
				fmt.Sprintf("upload exceeds %s", humanize.IBytes(uint64(maxBytesErr.Limit))),
				nil, http.StatusRequestEntityTooLarge))
			return
		}
		respondWithError(w, s.logger, NewAPIError(ErrorCodeInvalidFormat,
			"expected a multipart form", err.Error(), http.StatusBadRequest))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	format, apiErr := formatOf(r)
	if apiErr != nil {
		respondWithError(w, s.logger, apiErr)
		return
	}

	selection, apiErr := s.selectionOf(r)
	if apiErr != nil {
		respondWithError(w, s.logger, apiErr)
		return
	}

	file, header, err := r.FormFile(fieldFile)
	if err != nil {
		respondWithError(w, s.logger, NewAPIError(ErrorCodeMissingParameter,
			fmt.Sprintf("form field %q with the telemetry file is required", fieldFile), nil, http.StatusBadRequest))
		return
	}
	defer file.Close()

	s.metrics.uploadBytes.Observe(float64(header.Size))
	s.logger.Info("telemetry uploaded",
		slog.String("file", header.Filename),
		slog.String("size", humanize.Bytes(uint64(header.Size))))

	table, err := s.load(file, header)
	if err != nil {
		respondWithError(w, s.logger, NewAPIError(ErrorCodeInvalidFile,
			"failed to read telemetry file", err.Error(), http.StatusBadRequest))
		return
	}

	report, err := s.pipeline.Run(r.Context(), table, selection)
	if err != nil {
		s.logger.Error("pipeline failed", slog.String("error", err.Error()))
		respondWithError(w, s.logger, NewAPIError(ErrorCodeInternalServerError,
			"failed to compute charts", nil, http.StatusInternalServerError))
		return
	}

	for _, slot := range report.Slots {
		outcome := "drawn"
		if slot.Error != nil {
			outcome = string(slot.Error.Code)
		}
		s.metrics.charts.WithLabelValues(string(slot.Kind), outcome).Inc()
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if err = render.Write(w, format, report, header.Filename); err != nil {
		s.logger.Error("failed to write report", slog.String("error", err.Error()))
	}
}

func formatOf(r *http.Request) (render.Format, *APIError) {
	raw := r.FormValue(fieldFormat)
	if raw == "" {
		return render.FormatJSON, nil
	}

	format, err := render.ParseFormat(raw)
	if err != nil || !format.Streamable() {
		return "", NewAPIError(ErrorCodeInvalidFormat,
			fmt.Sprintf("unsupported format %q", raw), nil, http.StatusBadRequest)
	}
	return format, nil
}

func (s *Server) selectionOf(r *http.Request) (pipeline.Selection, *APIError) {
	registry := s.pipeline.Registry()

	if raw := r.FormValue(fieldAll); raw != "" {
		all, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, NewAPIError(ErrorCodeValidationFailed,
				fmt.Sprintf("invalid %q value %q", fieldAll, raw), nil, http.StatusBadRequest)
		}
		if all {
			return pipeline.SelectAll(registry), nil
		}
	}

	selection, err := pipeline.ParseSelection(registry, r.MultipartForm.Value[fieldChart])
	if err != nil {
		return nil, NewAPIError(ErrorCodeValidationFailed,
			"unknown chart kinds", strings.Split(err.Error(), "\n"), http.StatusBadRequest)
	}
	return selection, nil
}

// load reads the uploaded file as XLSX or CSV, by file extension.
func (s *Server) load(file multipart.File, header *multipart.FileHeader) (*telemetry.Table, error) {
	options := []telemetry.LoadOption{
		telemetry.WithLocation(s.config.Location),
		telemetry.WithLogger(s.logger),
	}

	if telemetry.IsWorkbook(header.Filename) {
		return telemetry.LoadXLSX(file, options...)
	}
	return telemetry.Load(file, options...)
}
