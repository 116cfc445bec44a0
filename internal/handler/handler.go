package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Siddarth2230/kiters/internal/models"
	"github.com/Siddarth2230/kiters/internal/service"
	"github.com/Siddarth2230/kiters/pkg/idgen"
	"github.com/Siddarth2230/kiters/pkg/timestamp"
)

type Handler struct {
	requestIDs  *service.RequestIDService
	externalIDs *service.ExternalIDService
	logger      *slog.Logger
}

func New(rids *service.RequestIDService, eids *service.ExternalIDService, logger *slog.Logger) *Handler {
	return &Handler{requestIDs: rids, externalIDs: eids, logger: logger}
}

// Register mounts all routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/time", h.Time).Methods(http.MethodGet)
	v1.HandleFunc("/request-ids", h.IssueRequestIDs).Methods(http.MethodGet)
	v1.HandleFunc("/external-ids", h.CreateExternalID).Methods(http.MethodPost)
	v1.HandleFunc("/external-ids", h.ListExternalIDs).Methods(http.MethodGet)
	v1.HandleFunc("/external-ids/{eid}", h.GetExternalID).Methods(http.MethodGet)
	v1.HandleFunc("/external-ids/{eid}", h.HeadExternalID).Methods(http.MethodHead)
	v1.HandleFunc("/external-ids/{eid}", h.DeleteExternalID).Methods(http.MethodDelete)
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"persisted": h.externalIDs.Persistent(),
	})
}

// GET /v1/time
func (h *Handler) Time(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.TimeResponse{UTC: timestamp.Now()})
}

// GET /v1/request-ids?width=narrow|wide&mixed=true|false&count=N
func (h *Handler) IssueRequestIDs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width, err := idgen.ParseWidth(q.Get("width"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mixed := false
	if v := q.Get("mixed"); v != "" {
		if mixed, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "mixed must be a boolean")
			return
		}
	}

	count := 1
	if v := q.Get("count"); v != "" {
		if count, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "count must be an integer")
			return
		}
	}

	ids, err := h.requestIDs.Issue(width, mixed, count)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.RequestIDsResponse{Width: width.String(), Mixed: mixed, IDs: ids})
}

// POST /v1/external-ids
func (h *Handler) CreateExternalID(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExternalIDRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	rec, err := h.externalIDs.Create(r.Context(), req.Prefix)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(rec))
}

// GET /v1/external-ids?prefix=P&limit=N
func (h *Handler) ListExternalIDs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := h.externalIDs.List(r.Context(), q.Get("prefix"), limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	resp := models.ExternalIDListResponse{Items: make([]models.ExternalIDResponse, 0, len(recs))}
	for i := range recs {
		resp.Items = append(resp.Items, h.toResponse(&recs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/external-ids/{eid}
func (h *Handler) GetExternalID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.externalIDs.Lookup(r.Context(), mux.Vars(r)["eid"])
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(rec))
}

// HEAD /v1/external-ids/{eid}
func (h *Handler) HeadExternalID(w http.ResponseWriter, r *http.Request) {
	ok, err := h.externalIDs.Exists(r.Context(), mux.Vars(r)["eid"])
	switch {
	case errors.Is(err, service.ErrInvalidID):
		w.WriteHeader(http.StatusBadRequest)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "head external id", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	case !ok:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// DELETE /v1/external-ids/{eid}
func (h *Handler) DeleteExternalID(w http.ResponseWriter, r *http.Request) {
	if err := h.externalIDs.Delete(r.Context(), mux.Vars(r)["eid"]); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toResponse(rec *models.ExternalIDRecord) models.ExternalIDResponse {
	return models.ExternalIDResponse{
		EID:       rec.EID,
		Prefix:    rec.Prefix,
		UUID:      rec.UUID,
		CreatedAt: timestamp.Format(rec.CreatedAt),
		Persisted: h.externalIDs.Persistent(),
	}
}

// handleError maps service errors to HTTP responses.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPrefix),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidCount),
		errors.Is(err, idgen.ErrInvalidWidth):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGeneratorNotServed),
		errors.Is(err, service.ErrStoreDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
