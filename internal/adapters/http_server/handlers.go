package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"hostel_picker/internal/domain"
	"hostel_picker/internal/matching"
)

const maxBodyBytes = 1 << 20

// Service is what the handlers need from the application layer.
type Service interface {
	Records(ctx context.Context) ([]domain.Record, error)
	Shortlist(ctx context.Context, p domain.UserProfile, k int) (matching.Shortlist, error)
	Recommend(ctx context.Context, p domain.UserProfile, msgs []domain.ChatMessage) (domain.Advice, error)
}

type Handlers struct {
	S        Service
	validate *validator.Validate
}

func NewHandlers(s Service) *Handlers {
	return &Handlers{S: s, validate: validator.New()}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type shortlistRequest struct {
	Profile domain.UserProfile `json:"profile"`
	K       int                `json:"k" validate:"gte=0,lte=50"`
}

type recommendationRequest struct {
	Messages []domain.ChatMessage `json:"messages" validate:"dive"`
	Context  domain.UserProfile   `json:"context"`
}

type hostelsResponse struct {
	Count   int             `json:"count"`
	Hostels []domain.Record `json:"hostels"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hostels", h.listHostels)
	s.mux.Post("/v1/shortlist", h.shortlist)
	s.mux.Post("/v1/recommendations", h.recommendations)
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

// decode reads a JSON body into dst and validates it. It writes the problem
// response itself and reports whether the handler may continue.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
		return false
	}
	return true
}

func (h *Handlers) listHostels(w http.ResponseWriter, r *http.Request) {
	recs, err := h.S.Records(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list hostels")
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", "hostel table could not be fetched")
		return
	}
	if dest := r.URL.Query().Get("destination"); dest != "" {
		recs = matching.FilterByLocation(recs, dest)
	}
	if recs == nil {
		recs = []domain.Record{}
	}

	etag, body := calcETagAndBody(hostelsResponse{Count: len(recs), Hostels: recs})
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listHostels body")
	}
}

func (h *Handlers) shortlist(w http.ResponseWriter, r *http.Request) {
	var req shortlistRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.S.Shortlist(r.Context(), req.Profile, req.K)
	if err != nil {
		log.Error().Err(err).Msg("shortlist")
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", "hostel table could not be fetched")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if !h.decode(w, r, &req) {
		return
	}
	adv, err := h.S.Recommend(r.Context(), req.Context, req.Messages)
	if errors.Is(err, domain.ErrAdvisorDisabled) {
		writeProblem(w, http.StatusServiceUnavailable, "Advisor Disabled", "no language model is configured")
		return
	}
	if err != nil {
		// Front ends render message as-is, so failures stay 200.
		log.Error().Err(err).Msg("recommendations")
		writeJSON(w, http.StatusOK, map[string]any{"message": "System Error: " + err.Error(), "recommendations": nil})
		return
	}
	writeJSON(w, http.StatusOK, adv)
}
