package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"returnpulse/internal/dataprocessing"
	apierrors "returnpulse/internal/errors"
	"returnpulse/internal/exporter"
	mw "returnpulse/internal/middleware"
	"returnpulse/internal/services"
	api "returnpulse/pkg/contracts/api/v1"
	"returnpulse/pkg/contracts/domain"
)

// URL parameters of the run routes.
const (
	ParamRunID     = "runID"
	ParamDimension = "dimension"
)

// RunsHandler serves ingestion and the queries over stored runs.
type RunsHandler struct {
	service        RunServiceInterface
	validator      *mw.RequestValidator
	errorHandler   *apierrors.ErrorHandler
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewRunsHandler creates a runs handler. maxUploadBytes bounds the whole
// multipart body of one ingest request.
func NewRunsHandler(service RunServiceInterface, validator *mw.RequestValidator, errorHandler *apierrors.ErrorHandler, maxUploadBytes int64, logger *slog.Logger) *RunsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunsHandler{
		service:        service,
		validator:      validator,
		errorHandler:   errorHandler,
		logger:         logger.With(slog.String("component", "runs_handler")),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes registers the ingest and run routes on r.
func (h *RunsHandler) Routes(r chi.Router) {
	r.With(mw.ContentTypeValidator(h.errorHandler, "multipart/form-data")).Post("/ingest", h.Ingest)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.ListRuns)
		r.Route("/{runID}", func(r chi.Router) {
			r.Use(h.RunCtx)
			r.Get("/", h.GetRun)
			r.Delete("/", h.DeleteRun)
			r.Get("/records", h.GetRecords)
			r.Get("/groups/{dimension}", h.GetGroups)
			r.Get("/groups/{dimension}/export.csv", h.ExportGroups)
			r.Get("/options/{dimension}", h.GetOptions)
			r.Get("/crossfilter", h.GetCrossFilter)
			r.Get("/export.csv", h.Export(exporter.FormatCSV))
			r.Get("/export.xlsx", h.Export(exporter.FormatXLSX))
		})
	})
}

// RunCtx rejects malformed run ids before they reach the service.
func (h *RunsHandler) RunCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.validator.ValidateStruct(api.RunRequest{RunID: chi.URLParam(r, ParamRunID)}); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Ingest handles POST /api/ingest. Every part of the repeated "files" field
// becomes one source of a new run.
func (h *RunsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	if h.maxUploadBytes > 0 {
		if r.ContentLength > h.maxUploadBytes {
			h.errorHandler.HandleError(w, r, &http.MaxBytesError{Limit: h.maxUploadBytes})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(api.IngestMemoryBytes); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[api.IngestFormField]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoSources)
		return
	}

	sources := make([]dataprocessing.Source, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		sources = append(sources, dataprocessing.Source{Name: fh.Filename, Data: data})
	}

	h.logger.InfoContext(ctx, "ingesting upload",
		slog.String("request_id", reqID),
		slog.Int("files", len(sources)),
	)

	run, err := h.service.Ingest(ctx, sources)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.IngestResponse{
		RunID:    run.ID,
		Summary:  run.Summary,
		Sources:  run.Result.Sources,
		Failures: run.Result.Failures,
		Warnings: run.Result.Warnings,
	})
}

// ListRuns handles GET /api/runs
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs := h.service.List(r.Context())
	render.JSON(w, r, api.RunListResponse{Runs: runs, Count: len(runs)})
}

// GetRun handles GET /api/runs/{runID}
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Get(r.Context(), chi.URLParam(r, ParamRunID))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, api.RunResponse{
		RunMeta:       run.Meta(),
		SourceReports: run.Result.Sources,
		FailureList:   run.Result.Failures,
		WarningList:   run.Result.Warnings,
	})
}

// DeleteRun handles DELETE /api/runs/{runID}
func (h *RunsHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, ParamRunID)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "run deleted",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("run_id", id),
	)
	w.WriteHeader(http.StatusNoContent)
}

// GetRecords handles GET /api/runs/{runID}/records
func (h *RunsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, ParamRunID)
	sel, err := h.validator.BindSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ds, err := h.service.Records(r.Context(), id, sel)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	records := ds.Records
	if records == nil {
		records = []domain.ReturnRecord{}
	}
	render.JSON(w, r, api.RecordsResponse{
		RunID:     id,
		Selection: sel,
		Columns:   ds.Columns(),
		Records:   records,
		Count:     len(records),
	})
}

// GetGroups handles GET /api/runs/{runID}/groups/{dimension}
func (h *RunsHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	req, err := h.bindGroups(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dim := domain.Dimension(req.Dimension)
	groups, err := h.service.Groups(r.Context(), req.RunID, dim, req.Selection, req.Limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if groups == nil {
		groups = []domain.GroupTotal{}
	}
	render.JSON(w, r, api.GroupsResponse{RunID: req.RunID, Dimension: dim, Selection: req.Selection, Groups: groups})
}

// ExportGroups handles GET /api/runs/{runID}/groups/{dimension}/export.csv
func (h *RunsHandler) ExportGroups(w http.ResponseWriter, r *http.Request) {
	req, err := h.bindGroups(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dim := domain.Dimension(req.Dimension)
	groups, err := h.service.Groups(r.Context(), req.RunID, dim, req.Selection, req.Limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteGroupsCSV(&buf, dim, groups); err != nil {
		h.logger.ErrorContext(r.Context(), "group export failed",
			slog.String("run_id", req.RunID),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
		return
	}
	name := fmt.Sprintf("returns-%s-by-%s.csv", shortID(req.RunID), dim)
	h.attach(w, r, name, exporter.FormatCSV.ContentType(), &buf)
}

// bindGroups reads and validates the parameters shared by the group routes.
func (h *RunsHandler) bindGroups(r *http.Request) (api.GroupsRequest, error) {
	sel, err := h.validator.BindSelection(r)
	if err != nil {
		return api.GroupsRequest{}, err
	}
	limit, err := h.validator.ParseLimit(r, api.MaxGroupLimit)
	if err != nil {
		return api.GroupsRequest{}, err
	}

	req := api.GroupsRequest{
		RunID:     chi.URLParam(r, ParamRunID),
		Dimension: chi.URLParam(r, ParamDimension),
		Selection: sel,
		Limit:     limit,
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return api.GroupsRequest{}, err
	}
	return req, nil
}

// GetOptions handles GET /api/runs/{runID}/options/{dimension}
func (h *RunsHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	req := api.OptionsRequest{
		RunID:     chi.URLParam(r, ParamRunID),
		Dimension: chi.URLParam(r, ParamDimension),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	dim := domain.Dimension(req.Dimension)
	options, err := h.service.Options(r.Context(), req.RunID, dim)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if options == nil {
		options = []domain.Option{}
	}
	render.JSON(w, r, api.OptionsResponse{RunID: req.RunID, Dimension: dim, Options: options})
}

// GetCrossFilter handles GET /api/runs/{runID}/crossfilter
func (h *RunsHandler) GetCrossFilter(w http.ResponseWriter, r *http.Request) {
	sel, err := h.validator.BindSelection(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	view, err := h.service.CrossFilter(r.Context(), chi.URLParam(r, ParamRunID), sel)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// Export returns the handler of GET /api/runs/{runID}/export.{csv,xlsx}.
// The filtered records are encoded in memory first so a failure can still
// be reported as a problem response.
func (h *RunsHandler) Export(format exporter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, ParamRunID)

		sel, err := h.validator.BindSelection(r)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		req := api.ExportRequest{
			RunID:     id,
			Format:    string(format),
			Name:      r.URL.Query().Get(api.ExportNameParameter),
			Selection: sel,
		}
		if err := h.validator.ValidateStruct(req); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}

		run, err := h.service.Get(ctx, id)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}
		ds, err := h.service.Records(ctx, id, sel)
		if err != nil {
			h.handleServiceError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := format.Write(&buf, ds, run.Result.Sources); err != nil {
			h.logger.ErrorContext(ctx, "export failed",
				slog.String("request_id", middleware.GetReqID(ctx)),
				slog.String("run_id", id),
				slog.String("error", err.Error()),
			)
			h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
			return
		}

		name := req.Name
		if name == "" {
			name = fmt.Sprintf("returns-%s.%s", shortID(id), format)
		}
		h.attach(w, r, name, format.ContentType(), &buf)
	}
}

// attach sends buf as a file download named name.
func (h *RunsHandler) attach(w http.ResponseWriter, r *http.Request, name, contentType string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export response interrupted",
			slog.String("run_id", chi.URLParam(r, ParamRunID)),
			slog.String("error", err.Error()),
		)
	}
}

// shortID keeps the first block of a run id for download names.
func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

// handleServiceError maps run service errors onto API errors.
func (h *RunsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrRunNotFound):
		h.errorHandler.HandleError(w, r, apierrors.ErrRunNotFound)
	case errors.Is(err, services.ErrNoSources):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoSources)
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
