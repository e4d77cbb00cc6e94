package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/campuskit/academy/pkg/academy"
)

// CatalogHandler handles HTTP requests for courses and their batches
type CatalogHandler struct {
	service academy.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service academy.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Routes returns the routes for the course catalog
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateCourse)
	r.Get("/", h.ListCourses)
	r.Get("/{id}", h.GetCourse)
	r.Get("/slug/{slug}", h.GetCourseBySlug)
	r.Patch("/{id}", h.UpdateCourse)
	r.Delete("/{id}", h.DeleteCourse)

	r.Post("/{id}/batches", h.CreateBatch)
	r.Get("/{id}/batches", h.ListBatches)

	return r
}

// BatchRoutes returns the routes addressed by batch ID
func (h *CatalogHandler) BatchRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetBatch)
	r.Delete("/{id}", h.DeleteBatch)

	return r
}

type createCourseRequest struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	DurationWeeks int    `json:"duration_weeks"`
	FeeCents      int64  `json:"fee_cents"`
	Active        *bool  `json:"active"`
}

// CreateCourse creates a course. Slug is optional and derived from the
// title when absent.
func (h *CatalogHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	course, err := h.service.CreateCourse(r.Context(), academy.CreateCourseRequest{
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		FeeCents:      req.FeeCents,
		Active:        active,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, course)
}

// GetCourse retrieves a course by ID
func (h *CatalogHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	course, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, course)
}

// GetCourseBySlug retrieves a course by its slug
func (h *CatalogHandler) GetCourseBySlug(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.GetCourseBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, course)
}

type updateCourseRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	DurationWeeks *int    `json:"duration_weeks"`
	FeeCents      *int64  `json:"fee_cents"`
	Active        *bool   `json:"active"`
}

// UpdateCourse applies a sparse update to a course
func (h *CatalogHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), id, academy.CourseUpdate{
		Title:         req.Title,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		FeeCents:      req.FeeCents,
		Active:        req.Active,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, course)
}

// DeleteCourse deletes a course
func (h *CatalogHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// ListCourses lists courses with optional filters
func (h *CatalogHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	filter := academy.CourseFilter{
		Active: queryBool(r, "active"),
		Search: r.URL.Query().Get("q"),
		Page:   parsePage(r),
	}

	courses, total, err := h.service.ListCourses(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: courses, Total: total})
}

type createBatchRequest struct {
	Name     string    `json:"name"`
	StartsOn time.Time `json:"starts_on"`
	Schedule string    `json:"schedule"`
	Capacity int       `json:"capacity"`
}

// CreateBatch schedules a batch under the course in the URL
func (h *CatalogHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	batch, err := h.service.CreateBatch(r.Context(), academy.CreateBatchRequest{
		CourseID: courseID,
		Name:     req.Name,
		StartsOn: req.StartsOn,
		Schedule: req.Schedule,
		Capacity: req.Capacity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, batch)
}

// ListBatches lists the batches of the course in the URL
func (h *CatalogHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	courseID, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	batches, total, err := h.service.ListBatchesByCourse(r.Context(), courseID, parsePage(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: batches, Total: total})
}

// GetBatch retrieves a batch by ID
func (h *CatalogHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, errValidation)
		return
	}

	batch, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, batch)
}

// DeleteBatch deletes a batch
func (h *CatalogHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, errValidation)
		return
	}

	if err := h.service.DeleteBatch(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
