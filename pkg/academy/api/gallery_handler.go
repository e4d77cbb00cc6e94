package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/campuskit/academy/pkg/academy"
)

// GalleryHandler handles HTTP requests for gallery images
type GalleryHandler struct {
	service academy.Service
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(service academy.Service) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// Routes returns the routes for gallery images
func (h *GalleryHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateGalleryImage)
	r.Get("/", h.ListGalleryImages)
	r.Get("/{id}", h.GetGalleryImage)
	r.Patch("/{id}", h.UpdateGalleryImage)
	r.Put("/{id}/image", h.ReplaceGalleryImage)
	r.Delete("/{id}", h.DeleteGalleryImage)

	return r
}

// CreateGalleryImage creates a gallery image from a multipart form. The
// "image" file field is mandatory.
func (h *GalleryHandler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}

	upload, closeUpload, err := formUpload(r, "image")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeUpload()
	if upload == nil {
		respondError(w, r, errValidation)
		return
	}

	sortOrder, _ := strconv.Atoi(r.FormValue("sort_order"))
	active := true
	if v := r.FormValue("active"); v != "" {
		active, _ = strconv.ParseBool(v)
	}

	img, err := h.service.CreateGalleryImage(r.Context(), academy.CreateGalleryImageRequest{
		Title:     r.FormValue("title"),
		AltText:   r.FormValue("alt_text"),
		SortOrder: sortOrder,
		Active:    active,
		Upload:    *upload,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, img)
}

// GetGalleryImage retrieves a gallery image by ID
func (h *GalleryHandler) GetGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	img, err := h.service.GetGalleryImage(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, img)
}

type updateGalleryImageRequest struct {
	Title     *string `json:"title"`
	AltText   *string `json:"alt_text"`
	SortOrder *int    `json:"sort_order"`
	Active    *bool   `json:"active"`
}

// UpdateGalleryImage applies a sparse update. An empty body is a no-op that
// returns the current record.
func (h *GalleryHandler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateGalleryImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	img, err := h.service.UpdateGalleryImage(r.Context(), id, academy.GalleryImageUpdate{
		Title:     req.Title,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
		Active:    req.Active,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, img)
}

// ReplaceGalleryImage swaps the image blob behind an existing record
func (h *GalleryHandler) ReplaceGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}
	upload, closeUpload, err := formUpload(r, "image")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeUpload()
	if upload == nil {
		respondError(w, r, errValidation)
		return
	}

	img, outcome, err := h.service.ReplaceGalleryImage(r.Context(), id, *upload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	markOrphans(w, outcome)
	render.JSON(w, r, img)
}

// DeleteGalleryImage deletes the record and, unless keep_asset=true, its blob
func (h *GalleryHandler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	removeAsset := true
	if v := queryBool(r, "keep_asset"); v != nil && *v {
		removeAsset = false
	}

	outcome, err := h.service.DeleteGalleryImage(r.Context(), id, removeAsset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOutcome(w, r, outcome)
}

// ListGalleryImages lists gallery images with optional filters
func (h *GalleryHandler) ListGalleryImages(w http.ResponseWriter, r *http.Request) {
	filter := academy.GalleryFilter{
		Active: queryBool(r, "active"),
		Search: r.URL.Query().Get("q"),
		Page:   parsePage(r),
	}

	images, total, err := h.service.ListGalleryImages(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: images, Total: total})
}
