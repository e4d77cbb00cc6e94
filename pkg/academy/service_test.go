package academy_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academy/pkg/academy"
	repomemory "github.com/campuskit/academy/pkg/academy/repo/memory"
	memorystorage "github.com/campuskit/academy/pkg/academy/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []academy.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []academy.Option{},
			expectError: true,
		},
		{
			name: "repository alone should fail",
			options: []academy.Option{
				academy.WithRepository(repomemory.New()),
			},
			expectError: true,
		},
		{
			name: "repository and blob store should succeed",
			options: []academy.Option{
				academy.WithRepository(repomemory.New()),
				academy.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := academy.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) (academy.Service, *repomemory.Repository, *memorystorage.Backend) {
	repo := repomemory.New()
	store := memorystorage.New()

	svc, err := academy.New(
		academy.WithRepository(repo),
		academy.WithBlobStore(store),
	)
	require.NoError(t, err)

	return svc, repo, store
}

func jpegUpload(size int) academy.AssetUpload {
	return academy.AssetUpload{
		Data:     bytes.NewReader(bytes.Repeat([]byte{0xFF}, size)),
		Size:     int64(size),
		MimeType: "image/jpeg",
		FileName: "photo.jpg",
	}
}

// failingRepo wraps a working repository and fails selected operations.
type failingRepo struct {
	academy.Repository
	failGalleryCreate bool
	failGalleryDelete bool
	failSetGallery    bool
	failUserCreate    bool
}

var errBoom = errors.New("boom")

func (f *failingRepo) CreateGalleryImage(ctx context.Context, img *academy.GalleryImage) error {
	if f.failGalleryCreate {
		return errBoom
	}
	return f.Repository.CreateGalleryImage(ctx, img)
}

func (f *failingRepo) DeleteGalleryImage(ctx context.Context, id uuid.UUID) error {
	if f.failGalleryDelete {
		return errBoom
	}
	return f.Repository.DeleteGalleryImage(ctx, id)
}

func (f *failingRepo) SetGalleryAsset(ctx context.Context, id uuid.UUID, asset academy.MediaAsset, updatedAt time.Time) error {
	if f.failSetGallery {
		return errBoom
	}
	return f.Repository.SetGalleryAsset(ctx, id, asset, updatedAt)
}

func (f *failingRepo) CreateUserProfile(ctx context.Context, user *academy.UserProfile) error {
	if f.failUserCreate {
		return errBoom
	}
	return f.Repository.CreateUserProfile(ctx, user)
}

func TestCreateGalleryImage(t *testing.T) {
	svc, _, store := setupTestService(t)
	ctx := context.Background()

	t.Run("upload then insert", func(t *testing.T) {
		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Lab Tour",
			Active: true,
			Upload: jpegUpload(3 << 20),
		})
		require.NoError(t, err)
		assert.Equal(t, "Lab Tour", img.Title)
		assert.NotEmpty(t, img.Asset.URL)
		assert.True(t, store.Contains(img.Asset.PublicID))
		assert.Len(t, store.HandlesWithPrefix("gallery/"), 1)

		got, err := svc.GetGalleryImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, img.Asset, got.Asset)
	})

	t.Run("rejects disallowed mime type before upload", func(t *testing.T) {
		calls := len(store.Calls())
		_, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title: "Doc",
			Upload: academy.AssetUpload{
				Data:     bytes.NewReader([]byte("%PDF")),
				Size:     4,
				MimeType: "application/pdf",
				FileName: "doc.pdf",
			},
		})
		assert.ErrorIs(t, err, academy.ErrInvalidAsset)
		assert.Len(t, store.Calls(), calls, "no store call should happen for an invalid asset")
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		_, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Huge",
			Upload: jpegUpload(11 << 20),
		})
		assert.ErrorIs(t, err, academy.ErrInvalidAsset)
	})
}

func TestCreateGalleryImageCompensation(t *testing.T) {
	repo := repomemory.New()
	store := memorystorage.New()
	svc, err := academy.New(
		academy.WithRepository(&failingRepo{Repository: repo, failGalleryCreate: true}),
		academy.WithBlobStore(store),
	)
	require.NoError(t, err)

	_, err = svc.CreateGalleryImage(context.Background(), academy.CreateGalleryImageRequest{
		Title:  "Doomed",
		Upload: jpegUpload(1024),
	})
	assert.ErrorIs(t, err, academy.ErrPersistFailed)

	// the uploaded blob must have been compensated away
	assert.Equal(t, 0, store.Len())
	calls := store.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "upload", calls[0].Op)
	assert.Equal(t, "delete", calls[1].Op)
	assert.Equal(t, calls[0].Handle, calls[1].Handle)
}

func TestReplaceGalleryImage(t *testing.T) {
	ctx := context.Background()

	t.Run("old blob removed only after commit", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Before",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)
		oldHandle := img.Asset.PublicID

		replaced, outcome, err := svc.ReplaceGalleryImage(ctx, img.ID, jpegUpload(2048))
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.NotEqual(t, oldHandle, replaced.Asset.PublicID)
		assert.False(t, store.Contains(oldHandle))
		assert.True(t, store.Contains(replaced.Asset.PublicID))

		// ordering: upload new, then delete old, never the reverse
		calls := store.Calls()
		require.Len(t, calls, 3)
		assert.Equal(t, "upload", calls[1].Op)
		assert.Equal(t, "delete", calls[2].Op)
		assert.Equal(t, oldHandle, calls[2].Handle)
	})

	t.Run("failed commit keeps old state and discards new blob", func(t *testing.T) {
		repo := repomemory.New()
		store := memorystorage.New()
		svc, err := academy.New(
			academy.WithRepository(repo),
			academy.WithBlobStore(store),
		)
		require.NoError(t, err)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Stable",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)

		failing, err := academy.New(
			academy.WithRepository(&failingRepo{Repository: repo, failSetGallery: true}),
			academy.WithBlobStore(store),
		)
		require.NoError(t, err)

		_, _, err = failing.ReplaceGalleryImage(ctx, img.ID, jpegUpload(2048))
		assert.ErrorIs(t, err, academy.ErrPersistFailed)

		// old blob survives, new blob was compensated away
		assert.True(t, store.Contains(img.Asset.PublicID))
		assert.Equal(t, 1, store.Len())

		got, err := svc.GetGalleryImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, img.Asset, got.Asset)
	})

	t.Run("failed old-blob delete reports orphan", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Sticky",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)

		store.FailDeletes(errBoom)
		replaced, outcome, err := svc.ReplaceGalleryImage(ctx, img.ID, jpegUpload(2048))
		require.NoError(t, err, "a leaked blob must not fail the operation")
		assert.Equal(t, []string{img.Asset.PublicID}, outcome.Orphaned)
		assert.NotEqual(t, img.Asset.PublicID, replaced.Asset.PublicID)
	})
}

func TestDeleteGalleryImage(t *testing.T) {
	ctx := context.Background()

	t.Run("removes blob then row", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Short lived",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)

		outcome, err := svc.DeleteGalleryImage(ctx, img.ID, true)
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.Equal(t, 0, store.Len())

		_, err = svc.GetGalleryImage(ctx, img.ID)
		assert.ErrorIs(t, err, academy.ErrNotFound)
	})

	t.Run("blob delete failure still removes row", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Stubborn blob",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)

		store.FailDeletes(errBoom)
		outcome, err := svc.DeleteGalleryImage(ctx, img.ID, true)
		require.NoError(t, err)
		assert.Equal(t, []string{img.Asset.PublicID}, outcome.Orphaned)

		_, err = svc.GetGalleryImage(ctx, img.ID)
		assert.ErrorIs(t, err, academy.ErrNotFound)
	})

	t.Run("row delete failure surfaces DeleteFailed", func(t *testing.T) {
		repo := repomemory.New()
		store := memorystorage.New()
		svc, err := academy.New(
			academy.WithRepository(repo),
			academy.WithBlobStore(store),
		)
		require.NoError(t, err)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Locked",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)

		failing, err := academy.New(
			academy.WithRepository(&failingRepo{Repository: repo, failGalleryDelete: true}),
			academy.WithBlobStore(store),
		)
		require.NoError(t, err)

		_, err = failing.DeleteGalleryImage(ctx, img.ID, true)
		assert.ErrorIs(t, err, academy.ErrDeleteFailed)
	})

	t.Run("keep asset skips the store entirely", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		img, err := svc.CreateGalleryImage(ctx, academy.CreateGalleryImageRequest{
			Title:  "Archived",
			Upload: jpegUpload(1024),
		})
		require.NoError(t, err)
		calls := len(store.Calls())

		outcome, err := svc.DeleteGalleryImage(ctx, img.ID, false)
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.Len(t, store.Calls(), calls, "keep_asset delete must not touch the store")
		assert.True(t, store.Contains(img.Asset.PublicID))
	})
}

func TestBlogPostLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug from title", func(t *testing.T) {
		svc, _, _ := setupTestService(t)

		post, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title:  "Intro to C++ & Go!",
			Author: "priya",
		})
		require.NoError(t, err)
		assert.Equal(t, "intro-to-c-go", post.Slug)
	})

	t.Run("explicit slug conflict is rejected", func(t *testing.T) {
		svc, _, _ := setupTestService(t)

		_, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title: "First", Slug: "shared", Author: "a",
		})
		require.NoError(t, err)

		_, err = svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title: "Second", Slug: "shared", Author: "b",
		})
		assert.ErrorIs(t, err, academy.ErrDuplicateSlug)
	})

	t.Run("derived slug conflict gets a suffix", func(t *testing.T) {
		svc, _, _ := setupTestService(t)

		first, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title: "Same Title", Author: "a",
		})
		require.NoError(t, err)

		second, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title: "Same Title", Author: "b",
		})
		require.NoError(t, err)
		assert.NotEqual(t, first.Slug, second.Slug)
		assert.Contains(t, second.Slug, first.Slug+"-")
	})

	t.Run("banner upload failure compensates thumbnail", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		thumb := jpegUpload(1024)
		banner := academy.AssetUpload{
			Data:     bytes.NewReader([]byte("nope")),
			Size:     4,
			MimeType: "text/plain",
			FileName: "banner.txt",
		}
		_, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title:     "Half uploaded",
			Author:    "a",
			Thumbnail: &thumb,
			Banner:    &banner,
		})
		assert.ErrorIs(t, err, academy.ErrInvalidAsset)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("delete removes both blobs", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		thumb := jpegUpload(1024)
		banner := jpegUpload(2048)
		post, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title:     "Fully loaded",
			Author:    "a",
			Thumbnail: &thumb,
			Banner:    &banner,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())

		outcome, err := svc.DeleteBlogPost(ctx, post.ID, true)
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.Equal(t, 0, store.Len())
	})

	t.Run("replace thumbnail on post without one", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		post, err := svc.CreateBlogPost(ctx, academy.CreateBlogPostRequest{
			Title: "Bare", Author: "a",
		})
		require.NoError(t, err)

		updated, outcome, err := svc.ReplaceBlogAsset(ctx, post.ID, academy.AssetSlotThumbnail, jpegUpload(1024))
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		require.NotNil(t, updated.Thumbnail)
		assert.True(t, store.Contains(updated.Thumbnail.PublicID))
	})
}

func TestUserProfilePhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("create without photo touches no storage", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		user, err := svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{
			Name:  "Asha",
			Email: "Asha@Example.COM",
		})
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", user.Email)
		assert.Nil(t, user.Photo)
		assert.Empty(t, store.Calls())
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _, _ := setupTestService(t)

		_, err := svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "A", Email: "same@x.io"})
		require.NoError(t, err)
		_, err = svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "B", Email: "SAME@x.io"})
		assert.ErrorIs(t, err, academy.ErrDuplicateEmail)
	})

	t.Run("set then remove photo", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		user, err := svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "A", Email: "a@x.io"})
		require.NoError(t, err)

		withPhoto, outcome, err := svc.SetUserPhoto(ctx, user.ID, jpegUpload(1024))
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		require.NotNil(t, withPhoto.Photo)

		outcome, err = svc.RemoveUserPhoto(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.Equal(t, 0, store.Len())

		got, err := svc.GetUserProfile(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Photo)
	})

	t.Run("remove photo is a no-op without one", func(t *testing.T) {
		svc, _, store := setupTestService(t)

		user, err := svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "A", Email: "b@x.io"})
		require.NoError(t, err)
		calls := len(store.Calls())

		outcome, err := svc.RemoveUserPhoto(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, outcome.Clean())
		assert.Len(t, store.Calls(), calls)
	})

	t.Run("photo policy is stricter than gallery", func(t *testing.T) {
		svc, _, _ := setupTestService(t)

		user, err := svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "A", Email: "c@x.io"})
		require.NoError(t, err)

		_, _, err = svc.SetUserPhoto(ctx, user.ID, jpegUpload(6<<20))
		assert.ErrorIs(t, err, academy.ErrInvalidAsset)
	})

	t.Run("insert failure without photo returns plain error", func(t *testing.T) {
		repo := repomemory.New()
		store := memorystorage.New()
		svc, err := academy.New(
			academy.WithRepository(&failingRepo{Repository: repo, failUserCreate: true}),
			academy.WithBlobStore(store),
		)
		require.NoError(t, err)

		_, err = svc.CreateUserProfile(ctx, academy.CreateUserProfileRequest{Name: "A", Email: "d@x.io"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, academy.ErrPersistFailed)
	})
}

func TestCatalogAndInquiries(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, academy.CreateCourseRequest{
		Title:         "Embedded Systems",
		DurationWeeks: 12,
		FeeCents:      4999900,
		Active:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "embedded-systems", course.Slug)

	t.Run("batch requires existing course", func(t *testing.T) {
		_, err := svc.CreateBatch(ctx, academy.CreateBatchRequest{
			CourseID: uuid.New(),
			Name:     "orphan batch",
		})
		assert.ErrorIs(t, err, academy.ErrNotFound)

		batch, err := svc.CreateBatch(ctx, academy.CreateBatchRequest{
			CourseID: course.ID,
			Name:     "weekend cohort",
			Capacity: 30,
		})
		require.NoError(t, err)

		batches, total, err := svc.ListBatchesByCourse(ctx, course.ID, academy.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, batch.ID, batches[0].ID)
	})

	t.Run("quote lifecycle", func(t *testing.T) {
		quote, err := svc.SubmitQuote(ctx, academy.SubmitQuoteRequest{
			Name:     "Ravi",
			Email:    "ravi@example.com",
			CourseID: &course.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, academy.QuoteStatusNew, quote.Status)

		err = svc.SetQuoteStatus(ctx, quote.ID, academy.QuoteStatus("bogus"))
		assert.ErrorIs(t, err, academy.ErrInvalidInput)

		require.NoError(t, svc.SetQuoteStatus(ctx, quote.ID, academy.QuoteStatusContacted))
		got, err := svc.GetQuoteRequest(ctx, quote.ID)
		require.NoError(t, err)
		assert.Equal(t, academy.QuoteStatusContacted, got.Status)
	})

	t.Run("quote for unknown course rejected", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.SubmitQuote(ctx, academy.SubmitQuoteRequest{
			Name: "X", Email: "x@x.io", CourseID: &missing,
		})
		assert.ErrorIs(t, err, academy.ErrNotFound)
	})

	t.Run("newsletter subscribe is idempotent", func(t *testing.T) {
		first, err := svc.Subscribe(ctx, "News@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "news@example.com", first.Email)

		second, err := svc.Subscribe(ctx, "news@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.Subscribed)

		require.NoError(t, svc.Unsubscribe(ctx, "news@example.com"))
		err = svc.Unsubscribe(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, academy.ErrNotFound)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, "not-an-email")
		assert.ErrorIs(t, err, academy.ErrInvalidInput)
	})
}
