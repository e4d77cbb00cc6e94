// Package api exposes the academy service over HTTP using chi. Handlers
// translate between multipart/JSON requests and the service's typed
// requests, and map domain errors onto status codes.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/campuskit/academy/pkg/academy"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListResponse is the JSON envelope for paginated collections.
type ListResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// orphanedHeader carries the handles of blobs a successful operation could
// not remove, so operators can reap them later.
const orphanedHeader = "X-Orphaned-Assets"

// errValidation marks request-shape problems detected in the handlers.
var errValidation = errors.New("invalid request")

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, academy.ErrInvalidAsset):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, academy.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, academy.ErrUploadFailed):
		status = http.StatusBadGateway
	case errors.Is(err, academy.ErrDuplicateSlug), errors.Is(err, academy.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, errValidation), errors.Is(err, academy.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

// markOrphans surfaces compensation leftovers on an otherwise successful
// response.
func markOrphans(w http.ResponseWriter, outcome academy.AssetOutcome) {
	if !outcome.Clean() {
		w.Header().Set(orphanedHeader, strings.Join(outcome.Orphaned, ","))
	}
}

// respondOutcome answers a delete-style operation: 204 when everything was
// cleaned up, 200 with the orphan list otherwise.
func respondOutcome(w http.ResponseWriter, r *http.Request, outcome academy.AssetOutcome) {
	if outcome.Clean() {
		render.NoContent(w, r)
		return
	}
	markOrphans(w, outcome)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, outcome)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errValidation
	}
	return id, nil
}

// parsePage reads limit/offset query parameters. Out-of-range values are
// passed through; the repositories clamp them.
func parsePage(r *http.Request) academy.PageRequest {
	var page academy.PageRequest
	if v := r.URL.Query().Get("limit"); v != "" {
		page.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		page.Offset, _ = strconv.Atoi(v)
	}
	return page
}

func queryBool(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryString(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger files spill to disk.
const maxMultipartMemory = 32 << 20

// formUpload extracts one file from a parsed multipart form. A missing file
// returns (nil, nil, nil) so optional uploads fall through cleanly. The
// returned closer must run after the service call consumed the reader.
func formUpload(r *http.Request, field string) (*academy.AssetUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, errValidation
	}

	return &academy.AssetUpload{
		Data:     file,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		FileName: header.Filename,
	}, func() { file.Close() }, nil
}
