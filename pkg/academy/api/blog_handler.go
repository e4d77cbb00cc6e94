package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/campuskit/academy/pkg/academy"
)

// BlogHandler handles HTTP requests for blog posts
type BlogHandler struct {
	service academy.Service
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service academy.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// Routes returns the routes for blog posts
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateBlogPost)
	r.Get("/", h.ListBlogPosts)
	r.Get("/{id}", h.GetBlogPost)
	r.Get("/slug/{slug}", h.GetBlogPostBySlug)
	r.Patch("/{id}", h.UpdateBlogPost)
	r.Put("/{id}/thumbnail", h.ReplaceThumbnail)
	r.Put("/{id}/banner", h.ReplaceBanner)
	r.Delete("/{id}", h.DeleteBlogPost)

	return r
}

// CreateBlogPost creates a blog post from a multipart form. The "thumbnail"
// and "banner" file fields are both optional; tags are comma-separated.
func (h *BlogHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}

	thumbnail, closeThumb, err := formUpload(r, "thumbnail")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeThumb()

	banner, closeBanner, err := formUpload(r, "banner")
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeBanner()

	var tags []string
	if v := r.FormValue("tags"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	published, _ := strconv.ParseBool(r.FormValue("published"))

	post, err := h.service.CreateBlogPost(r.Context(), academy.CreateBlogPostRequest{
		Title:     r.FormValue("title"),
		Slug:      r.FormValue("slug"),
		Excerpt:   r.FormValue("excerpt"),
		Body:      r.FormValue("body"),
		Author:    r.FormValue("author"),
		Tags:      tags,
		Published: published,
		Thumbnail: thumbnail,
		Banner:    banner,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

// GetBlogPost retrieves a blog post by ID
func (h *BlogHandler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.service.GetBlogPost(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

// GetBlogPostBySlug retrieves a blog post by its slug
func (h *BlogHandler) GetBlogPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBlogPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

type updateBlogPostRequest struct {
	Title     *string   `json:"title"`
	Excerpt   *string   `json:"excerpt"`
	Body      *string   `json:"body"`
	Tags      *[]string `json:"tags"`
	Published *bool     `json:"published"`
}

// UpdateBlogPost applies a sparse update to a post's text fields
func (h *BlogHandler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateBlogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errValidation)
		return
	}

	post, err := h.service.UpdateBlogPost(r.Context(), id, academy.BlogPostUpdate{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

// ReplaceThumbnail swaps the thumbnail blob behind an existing post
func (h *BlogHandler) ReplaceThumbnail(w http.ResponseWriter, r *http.Request) {
	h.replaceAsset(w, r, academy.AssetSlotThumbnail, "thumbnail")
}

// ReplaceBanner swaps the banner blob behind an existing post
func (h *BlogHandler) ReplaceBanner(w http.ResponseWriter, r *http.Request) {
	h.replaceAsset(w, r, academy.AssetSlotBanner, "banner")
}

func (h *BlogHandler) replaceAsset(w http.ResponseWriter, r *http.Request, slot academy.AssetSlot, field string) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, r, errValidation)
		return
	}
	upload, closeUpload, err := formUpload(r, field)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer closeUpload()
	if upload == nil {
		respondError(w, r, errValidation)
		return
	}

	post, outcome, err := h.service.ReplaceBlogAsset(r.Context(), id, slot, *upload)
	if err != nil {
		respondError(w, r, err)
		return
	}

	markOrphans(w, outcome)
	render.JSON(w, r, post)
}

// DeleteBlogPost deletes the record and, unless keep_assets=true, its blobs
func (h *BlogHandler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	removeAssets := true
	if v := queryBool(r, "keep_assets"); v != nil && *v {
		removeAssets = false
	}

	outcome, err := h.service.DeleteBlogPost(r.Context(), id, removeAssets)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondOutcome(w, r, outcome)
}

// ListBlogPosts lists blog posts with optional filters
func (h *BlogHandler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	filter := academy.BlogFilter{
		Author:    queryString(r, "author"),
		Published: queryBool(r, "published"),
		Tag:       queryString(r, "tag"),
		Search:    r.URL.Query().Get("q"),
		Page:      parsePage(r),
	}

	posts, total, err := h.service.ListBlogPosts(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, ListResponse{Items: posts, Total: total})
}
