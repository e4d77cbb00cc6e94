package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academy/pkg/academy"
	"github.com/campuskit/academy/pkg/academy/api"
	repomemory "github.com/campuskit/academy/pkg/academy/repo/memory"
	memorystorage "github.com/campuskit/academy/pkg/academy/storage/memory"
)

func setupServer(t *testing.T) (*httptest.Server, *memorystorage.Backend) {
	t.Helper()
	store := memorystorage.New()
	svc, err := academy.New(
		academy.WithRepository(repomemory.New()),
		academy.WithBlobStore(store),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(svc))
	t.Cleanup(server.Close)
	return server, store
}

type filePart struct {
	field    string
	name     string
	mimeType string
	data     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(r).Decode(&v))
	return v
}

func TestGalleryEndpoints(t *testing.T) {
	server, store := setupServer(t)
	client := server.Client()

	jpeg := bytes.Repeat([]byte{0xFF}, 256)

	t.Run("create with image returns 201", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"title": "Lab Tour", "active": "true"},
			filePart{field: "image", name: "lab.jpg", mimeType: "image/jpeg", data: jpeg})

		resp, err := client.Post(server.URL+"/api/v1/gallery/", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		img := decode[academy.GalleryImage](t, resp.Body)
		assert.Equal(t, "Lab Tour", img.Title)
		assert.True(t, store.Contains(img.Asset.PublicID))
	})

	t.Run("create without image returns 400", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{"title": "No file"})

		resp, err := client.Post(server.URL+"/api/v1/gallery/", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad mime type returns 422", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"title": "Doc"},
			filePart{field: "image", name: "doc.pdf", mimeType: "application/pdf", data: []byte("%PDF")})

		resp, err := client.Post(server.URL+"/api/v1/gallery/", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/v1/gallery/" + uuid.NewString())
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/v1/gallery/not-a-uuid")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list wraps items and total", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/v1/gallery/?limit=500")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		list := decode[api.ListResponse](t, resp.Body)
		assert.Equal(t, 1, list.Total)
	})

	t.Run("delete returns 204", func(t *testing.T) {
		body, contentType := multipartBody(t,
			map[string]string{"title": "Short"},
			filePart{field: "image", name: "s.jpg", mimeType: "image/jpeg", data: jpeg})
		resp, err := client.Post(server.URL+"/api/v1/gallery/", contentType, body)
		require.NoError(t, err)
		img := decode[academy.GalleryImage](t, resp.Body)
		resp.Body.Close()

		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/gallery/"+img.ID.String(), nil)
		require.NoError(t, err)
		resp, err = client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.False(t, store.Contains(img.Asset.PublicID))
	})
}

func TestBlogEndpoints(t *testing.T) {
	server, _ := setupServer(t)
	client := server.Client()

	t.Run("create without uploads derives slug", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"title":  "Intro to C++ & Go!",
			"author": "priya",
			"tags":   "go, c++ ,",
		})
		resp, err := client.Post(server.URL+"/api/v1/blogs/", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		post := decode[academy.BlogPost](t, resp.Body)
		assert.Equal(t, "intro-to-c-go", post.Slug)
		assert.Equal(t, []string{"go", "c++"}, post.Tags)
	})

	t.Run("explicit duplicate slug returns 409", func(t *testing.T) {
		for i, want := range []int{http.StatusCreated, http.StatusConflict} {
			body, contentType := multipartBody(t, map[string]string{
				"title":  fmt.Sprintf("Post %d", i),
				"author": "a",
				"slug":   "taken",
			})
			resp, err := client.Post(server.URL+"/api/v1/blogs/", contentType, body)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, want, resp.StatusCode)
		}
	})

	t.Run("fetch by slug", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/v1/blogs/slug/taken")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("sparse patch updates only sent fields", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/api/v1/blogs/slug/taken")
		require.NoError(t, err)
		post := decode[academy.BlogPost](t, resp.Body)
		resp.Body.Close()

		req, err := http.NewRequest(http.MethodPatch,
			server.URL+"/api/v1/blogs/"+post.ID.String(),
			strings.NewReader(`{"excerpt":"short intro"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err = client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		updated := decode[academy.BlogPost](t, resp.Body)
		assert.Equal(t, "short intro", updated.Excerpt)
		assert.Equal(t, post.Title, updated.Title)
	})
}

func TestUserEndpoints(t *testing.T) {
	server, store := setupServer(t)
	client := server.Client()

	body, contentType := multipartBody(t, map[string]string{
		"name":  "Asha",
		"email": "asha@example.com",
	})
	resp, err := client.Post(server.URL+"/api/v1/users/", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[academy.UserProfile](t, resp.Body)
	resp.Body.Close()

	t.Run("duplicate email returns 409", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string]string{
			"name":  "Imposter",
			"email": "asha@example.com",
		})
		resp, err := client.Post(server.URL+"/api/v1/users/", contentType, body)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("photo set and remove", func(t *testing.T) {
		body, contentType := multipartBody(t, nil,
			filePart{field: "photo", name: "p.png", mimeType: "image/png", data: bytes.Repeat([]byte{1}, 64)})
		req, err := http.NewRequest(http.MethodPut,
			server.URL+"/api/v1/users/"+user.ID.String()+"/photo", body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", contentType)
		resp, err := client.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		withPhoto := decode[academy.UserProfile](t, resp.Body)
		resp.Body.Close()
		require.NotNil(t, withPhoto.Photo)
		assert.True(t, store.Contains(withPhoto.Photo.PublicID))

		req, err = http.NewRequest(http.MethodDelete,
			server.URL+"/api/v1/users/"+user.ID.String()+"/photo", nil)
		require.NoError(t, err)
		resp, err = client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, 0, store.Len())
	})
}

func TestInquiryEndpoints(t *testing.T) {
	server, _ := setupServer(t)
	client := server.Client()

	t.Run("quote without name returns 400", func(t *testing.T) {
		resp, err := client.Post(server.URL+"/api/v1/quotes/", "application/json",
			strings.NewReader(`{"email":"x@x.io"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("quote lifecycle over HTTP", func(t *testing.T) {
		resp, err := client.Post(server.URL+"/api/v1/quotes/", "application/json",
			strings.NewReader(`{"name":"Ravi","email":"ravi@example.com","message":"pricing?"}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		quote := decode[academy.QuoteRequest](t, resp.Body)
		resp.Body.Close()
		assert.Equal(t, academy.QuoteStatusNew, quote.Status)

		req, err := http.NewRequest(http.MethodPut,
			server.URL+"/api/v1/quotes/"+quote.ID.String()+"/status",
			strings.NewReader(`{"status":"contacted"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err = client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("newsletter subscribe then unsubscribe", func(t *testing.T) {
		resp, err := client.Post(server.URL+"/api/v1/newsletter/subscribe", "application/json",
			strings.NewReader(`{"email":"news@example.com"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = client.Post(server.URL+"/api/v1/newsletter/unsubscribe", "application/json",
			strings.NewReader(`{"email":"news@example.com"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, err = client.Post(server.URL+"/api/v1/newsletter/subscribe", "application/json",
			strings.NewReader(`{"email":"not-an-email"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	server, _ := setupServer(t)
	client := server.Client()

	resp, err := client.Post(server.URL+"/api/v1/courses/", "application/json",
		strings.NewReader(`{"title":"Embedded Systems","duration_weeks":12,"fee_cents":4999900}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	course := decode[academy.Course](t, resp.Body)
	resp.Body.Close()
	assert.Equal(t, "embedded-systems", course.Slug)
	assert.True(t, course.Active, "active defaults to true")

	t.Run("batch under course", func(t *testing.T) {
		resp, err := client.Post(server.URL+"/api/v1/courses/"+course.ID.String()+"/batches",
			"application/json",
			strings.NewReader(`{"name":"weekend cohort","starts_on":"2026-09-07T00:00:00Z","capacity":30}`))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		batch := decode[academy.Batch](t, resp.Body)
		resp.Body.Close()

		resp, err = client.Get(server.URL + "/api/v1/batches/" + batch.ID.String())
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("healthz and metrics are exposed", func(t *testing.T) {
		resp, err := client.Get(server.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, err = client.Get(server.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
