package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pipedeck/internal/api"
	"pipedeck/internal/catalog"
	"pipedeck/internal/logging"
	"pipedeck/internal/logs"
	"pipedeck/internal/player"
)

const (
	headerFilename       = "X-Filename"
	headerIdempotencyKey = "Idempotency-Key"

	defaultLogLines = 100
	maxLogLines     = 5000
)

type handlers struct {
	store    *catalog.Store
	importer *catalog.Importer
	logs     *logs.Reader
	lockPath string
	logger   *slog.Logger
	now      func() time.Time
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (h *handlers) listPipelines(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key, ok := catalog.ParseSortKey(query.Get("sort"))
	if !ok {
		h.writeError(w, http.StatusBadRequest, "unknown sort key "+query.Get("sort"))
		return
	}
	var category catalog.Category
	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		if category, ok = catalog.ParseCategory(raw); !ok {
			h.writeError(w, http.StatusBadRequest, "unknown category "+raw)
			return
		}
	}

	ctx := r.Context()
	entries := catalog.SortedView(catalog.Filter(h.store.Load(ctx), category), key)
	h.writeJSON(w, http.StatusOK, api.PipelineListResponse{Items: api.FromEntries(entries, h.activeID(r))})
}

func (h *handlers) createPipeline(w http.ResponseWriter, r *http.Request) {
	var req api.PipelineRequest
	if !h.decode(w, r, &req) {
		return
	}
	e, err := catalog.NewEntry(deref(req.Name), deref(req.Pipeline), h.now())
	if err != nil {
		h.fail(w, err)
		return
	}
	added, err := h.store.Add(r.Context(), e)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, api.PipelineResponse{Item: api.FromEntry(added, "")})
}

func (h *handlers) getPipeline(w http.ResponseWriter, r *http.Request) {
	e, ok := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		h.writeError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, api.PipelineResponse{Item: api.FromEntry(e, h.activeID(r))})
}

func (h *handlers) updatePipeline(w http.ResponseWriter, r *http.Request) {
	var req api.PipelineRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validateEdit(req); err != nil {
		h.fail(w, err)
		return
	}
	e, err := h.store.Modify(r.Context(), chi.URLParam(r, "id"), func(e *catalog.Entry) {
		if req.Name != nil {
			e.Name = strings.TrimSpace(*req.Name)
		}
		if req.Pipeline != nil {
			e.Text = strings.TrimSpace(*req.Pipeline)
		}
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PipelineResponse{Item: api.FromEntry(e, h.activeID(r))})
}

func (h *handlers) deletePipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Get(ctx, id); !ok {
		h.writeError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	if err := player.Delete(ctx, h.store, h.lockPath, id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) setFavorite(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var req api.FavoriteRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}
	favorite := true
	if req.Favorite != nil {
		favorite = *req.Favorite
	}
	e, err := h.store.SetFavorite(r.Context(), chi.URLParam(r, "id"), favorite)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PipelineResponse{Item: api.FromEntry(e, h.activeID(r))})
}

func (h *handlers) touchPipeline(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Touch(r.Context(), chi.URLParam(r, "id"), h.now())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.PipelineResponse{Item: api.FromEntry(e, h.activeID(r))})
}

func (h *handlers) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	raw, err := h.store.ExportSnapshot(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, raw)
}

func (h *handlers) importSnapshot(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	entries, err := h.store.ImportSnapshot(r.Context(), string(body))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, api.SnapshotImportResponse{
		Count: len(entries),
		Items: api.FromEntries(entries, h.activeID(r)),
	})
}

func (h *handlers) importFile(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	filename := r.Header.Get(headerFilename)
	token := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	e, err := h.importer.ImportData(r.Context(), filename, body, token)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, api.PipelineResponse{Item: api.FromEntry(e, "")})
}

func (h *handlers) active(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok, err := player.Playing(ctx, h.store, h.lockPath)
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := api.ActiveResponse{Active: ok, ID: id}
	if ok {
		if e, found := h.store.Get(ctx, id); found {
			item := api.FromEntry(e, id)
			resp.Item = &item
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// logTail returns the last lines of the log file, or the lines written
// after offset when one is given.
func (h *handlers) logTail(w http.ResponseWriter, r *http.Request) {
	if h.logs == nil {
		h.writeError(w, http.StatusNotFound, "log file not configured")
		return
	}
	query := r.URL.Query()
	limit := defaultLogLines
	if raw := strings.TrimSpace(query.Get("lines")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "lines must be a non-negative integer")
			return
		}
		limit = min(n, maxLogLines)
	}

	var (
		lines  []string
		offset int64
		err    error
	)
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		from, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || from < 0 {
			h.writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		lines, offset, err = h.logs.ReadFrom(from)
		if len(lines) > maxLogLines {
			lines = lines[len(lines)-maxLogLines:]
		}
	} else {
		lines, offset, err = h.logs.Last(limit)
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	h.writeJSON(w, http.StatusOK, api.LogTailResponse{Lines: lines, Offset: offset})
}

func (h *handlers) activeID(r *http.Request) string {
	id, ok, err := player.Playing(r.Context(), h.store, h.lockPath)
	if err != nil || !ok {
		return ""
	}
	return id
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *handlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return nil, false
	}
	return body, true
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(h.logger, "api request failed", "api_request_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog store backend"),
		)
	}
	h.writeError(w, status, err.Error())
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func statusFor(err error) int {
	var validation *catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicateID),
		errors.Is(err, catalog.ErrDuplicateImport),
		errors.Is(err, player.ErrPlaying):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrInvalidSnapshot),
		errors.Is(err, catalog.ErrInvalidInterchange),
		errors.Is(err, catalog.ErrEmptyPipeline),
		errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func validateEdit(req api.PipelineRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return &catalog.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if req.Pipeline != nil && strings.TrimSpace(*req.Pipeline) == "" {
		return &catalog.ValidationError{Field: "pipeline", Message: "must not be empty"}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
