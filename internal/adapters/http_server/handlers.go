// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"starcuak/internal/app"
	"starcuak/internal/domain"
)

type Handlers struct {
	A        *app.AnalysisService
	Q        *app.ReportService
	Products []string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/products", h.listProducts)
	s.mux.Post("/v1/reviews", h.analyzeReview)
	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Delete("/v1/reviews", h.resetReviews)
	s.mux.Get("/v1/report", h.getReport)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Products)
}

type analyzeRequest struct {
	Product string `json:"product"`
	Comment string `json:"comment"`
}

func (h *Handlers) analyzeReview(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON with product and comment")
		return
	}
	rv, err := h.A.AnalyzeOne(r.Context(), req.Product, req.Comment)
	if err != nil {
		writeAnalysisProblem(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func writeAnalysisProblem(w http.ResponseWriter, err error) {
	var ce *domain.ClassificationError
	var pe *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrEmptyComment):
		writeProblem(w, http.StatusBadRequest, "Invalid comment", "comment cannot be empty")
	case errors.As(err, &ce):
		writeProblem(w, http.StatusBadGateway, "Classification failed", ce.Error())
	case errors.As(err, &pe):
		writeProblem(w, http.StatusInternalServerError, "Storage failed", pe.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListReviews(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Storage failed", err.Error())
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listReviews body")
	}
}

func (h *Handlers) resetReviews(w http.ResponseWriter, r *http.Request) {
	if err := h.A.Reset(r.Context()); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Reset failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}
	rep, err := h.Q.Aggregate(r.Context(), rng)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Aggregation failed", err.Error())
		return
	}

	etag, body := calcETagAndBody(rep)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write report body")
	}
}

func parseRange(from, to string) (*domain.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, errors.New("from and to must be supplied together")
	}
	start, err := time.ParseInLocation("2006-01-02", from, time.UTC)
	if err != nil {
		return nil, errors.New("from must be a YYYY-MM-DD date")
	}
	end, err := time.ParseInLocation("2006-01-02", to, time.UTC)
	if err != nil {
		return nil, errors.New("to must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return nil, errors.New("to must not precede from")
	}
	return &domain.DateRange{Start: start, End: end}, nil
}
