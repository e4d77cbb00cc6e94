package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/campuskit/academy/pkg/academy"
)

// UserHandler handles HTTP requests for user profiles
type UserHandler struct {
	service academy.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(service academy.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Routes returns the routes for user profiles
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateUserProfile)
	r.Get("/", h.ListUserProfiles)
	r.Get("/{id}", h.GetUserProfile)
	r.Patch("/{id}", h.UpdateUserProfile)
	r.Put("/{id}/photo", h.SetUserPhoto)
	r.Delete("/{id}/photo", h.RemoveUserPhoto)
	r.Delete("/{id}", h.DeleteUserProfile)

	return r
}

// CreateUserProfile creates a profile from a multipart form. The "photo"
// file field is optional.
func (h *UserHandler) CreateUserProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}

	photo, closePhoto, err := formUpload(r, "photo")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closePhoto()

	user, err := h.service.CreateUserProfile(r.Context(), academy.CreateUserProfileRequest{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
		Bio:   r.FormValue("bio"),
		Photo: photo,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// GetUserProfile retrieves a user profile by ID
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.service.GetUserProfile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, user)
}

type updateUserProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// UpdateUserProfile applies a sparse update to profile text fields
func (h *UserHandler) UpdateUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateUserProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	user, err := h.service.UpdateUserProfile(r.Context(), id, academy.UserProfileUpdate{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, user)
}

// SetUserPhoto uploads a new profile photo, replacing any previous one
func (h *UserHandler) SetUserPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}
	upload, closeUpload, err := formUpload(r, "photo")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeUpload()
	if upload == nil {
		respondError(w, r, errValidation)
		return
	}

	user, outcome, err := h.service.SetUserPhoto(r.Context(), id, *upload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	markOrphans(w, outcome)
	render.JSON(w, r, user)
}

// RemoveUserPhoto clears the profile photo. A profile with no photo is a
// no-op success.
func (h *UserHandler) RemoveUserPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	outcome, err := h.service.RemoveUserPhoto(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOutcome(w, r, outcome)
}

// DeleteUserProfile deletes the record and, unless keep_photo=true, its blob
func (h *UserHandler) DeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	removePhoto := true
	if v := queryBool(r, "keep_photo"); v != nil && *v {
		removePhoto = false
	}

	outcome, err := h.service.DeleteUserProfile(r.Context(), id, removePhoto)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOutcome(w, r, outcome)
}

// ListUserProfiles lists user profiles with optional search
func (h *UserHandler) ListUserProfiles(w http.ResponseWriter, r *http.Request) {
	filter := academy.UserFilter{
		Search: r.URL.Query().Get("q"),
		Page:   parsePage(r),
	}

	users, total, err := h.service.ListUserProfiles(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: users, Total: total})
}
