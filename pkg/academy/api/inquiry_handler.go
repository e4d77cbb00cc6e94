package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/campuskit/academy/pkg/academy"
)

// InquiryHandler handles HTTP requests for quote requests and the
// newsletter list
type InquiryHandler struct {
	service academy.Service
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(service academy.Service) *InquiryHandler {
	return &InquiryHandler{service: service}
}

// QuoteRoutes returns the routes for quote requests
func (h *InquiryHandler) QuoteRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.SubmitQuote)
	r.Get("/", h.ListQuoteRequests)
	r.Get("/{id}", h.GetQuoteRequest)
	r.Put("/{id}/status", h.SetQuoteStatus)

	return r
}

// NewsletterRoutes returns the routes for the newsletter list
func (h *InquiryHandler) NewsletterRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/subscribe", h.Subscribe)
	r.Post("/unsubscribe", h.Unsubscribe)
	r.Get("/subscribers", h.ListSubscribers)

	return r
}

type submitQuoteRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CourseID string `json:"course_id"`
	Message  string `json:"message"`
}

// SubmitQuote records an inbound sales inquiry
func (h *InquiryHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req submitQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	var courseID *uuid.UUID
	if req.CourseID != "" {
		id, err := uuid.Parse(req.CourseID)
		if err != nil {
			respondError(w, r, errValidation)
			return
		}
		courseID = &id
	}

	quote, err := h.service.SubmitQuote(r.Context(), academy.SubmitQuoteRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		CourseID: courseID,
		Message:  req.Message,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, quote)
}

// GetQuoteRequest retrieves a quote request by ID
func (h *InquiryHandler) GetQuoteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	quote, err := h.service.GetQuoteRequest(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, quote)
}

type setQuoteStatusRequest struct {
	Status string `json:"status"`
}

// SetQuoteStatus moves a quote request through its handling states
func (h *InquiryHandler) SetQuoteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req setQuoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	if err := h.service.SetQuoteStatus(r.Context(), id, academy.QuoteStatus(req.Status)); err != nil {
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// ListQuoteRequests lists quote requests with optional filters
func (h *InquiryHandler) ListQuoteRequests(w http.ResponseWriter, r *http.Request) {
	filter := academy.QuoteFilter{
		Search: r.URL.Query().Get("q"),
		Page:   parsePage(r),
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := academy.QuoteStatus(v)
		filter.Status = &status
	}

	quotes, total, err := h.service.ListQuoteRequests(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: quotes, Total: total})
}

type newsletterRequest struct {
	Email string `json:"email"`
}

// Subscribe adds or reactivates a newsletter subscription
func (h *InquiryHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sub)
}

// Unsubscribe deactivates a newsletter subscription
func (h *InquiryHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	if err := h.service.Unsubscribe(r.Context(), req.Email); err != nil {
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// ListSubscribers lists newsletter subscribers
func (h *InquiryHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, total, err := h.service.ListSubscribers(r.Context(), parsePage(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: subs, Total: total})
}
