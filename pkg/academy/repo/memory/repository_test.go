package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academy/pkg/academy"
)

func seedGallery(t *testing.T, repo *Repository, n int) []*academy.GalleryImage {
	t.Helper()
	ctx := context.Background()
	images := make([]*academy.GalleryImage, 0, n)
	for i := 0; i < n; i++ {
		img := &academy.GalleryImage{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Image %02d", i),
			SortOrder: i,
			Active:    i%2 == 0,
			Asset:     academy.MediaAsset{URL: "mem://a", PublicID: fmt.Sprintf("gallery/%d", i)},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.CreateGalleryImage(ctx, img))
		images = append(images, img)
	}
	return images
}

func TestGalleryCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()

	img := seedGallery(t, repo, 1)[0]

	got, err := repo.GetGalleryImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, img.Title, got.Title)

	_, err = repo.GetGalleryImage(ctx, uuid.New())
	assert.ErrorIs(t, err, academy.ErrNotFound)

	t.Run("returned record is a copy", func(t *testing.T) {
		got.Title = "mutated"
		again, err := repo.GetGalleryImage(ctx, img.ID)
		require.NoError(t, err)
		assert.Equal(t, img.Title, again.Title)
	})

	t.Run("empty update returns current record unchanged", func(t *testing.T) {
		before, err := repo.GetGalleryImage(ctx, img.ID)
		require.NoError(t, err)

		after, err := repo.UpdateGalleryImage(ctx, img.ID, academy.GalleryImageUpdate{})
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
		assert.Equal(t, before.Title, after.Title)
	})

	t.Run("sparse update touches timestamp", func(t *testing.T) {
		title := "Renamed"
		updated, err := repo.UpdateGalleryImage(ctx, img.ID, academy.GalleryImageUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.True(t, updated.UpdatedAt.After(img.UpdatedAt) || updated.UpdatedAt.Equal(img.UpdatedAt))
	})

	t.Run("delete then not found", func(t *testing.T) {
		require.NoError(t, repo.DeleteGalleryImage(ctx, img.ID))
		assert.ErrorIs(t, repo.DeleteGalleryImage(ctx, img.ID), academy.ErrNotFound)
	})
}

func TestGalleryListFilters(t *testing.T) {
	repo := New()
	ctx := context.Background()
	seedGallery(t, repo, 10)

	t.Run("active filter", func(t *testing.T) {
		active := true
		images, total, err := repo.ListGalleryImages(ctx, academy.GalleryFilter{Active: &active})
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, images, 5)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		_, total, err := repo.ListGalleryImages(ctx, academy.GalleryFilter{Search: "image 0"})
		require.NoError(t, err)
		assert.Equal(t, 10, total)

		_, total, err = repo.ListGalleryImages(ctx, academy.GalleryFilter{Search: "IMAGE 03"})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("pagination clamps and totals stay full", func(t *testing.T) {
		images, total, err := repo.ListGalleryImages(ctx, academy.GalleryFilter{
			Page: academy.PageRequest{Limit: 3, Offset: 8},
		})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		assert.Len(t, images, 2)
	})

	t.Run("offset past end yields empty page", func(t *testing.T) {
		images, total, err := repo.ListGalleryImages(ctx, academy.GalleryFilter{
			Page: academy.PageRequest{Limit: 5, Offset: 50},
		})
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		assert.Empty(t, images)
	})

	t.Run("sorted by sort_order", func(t *testing.T) {
		images, _, err := repo.ListGalleryImages(ctx, academy.GalleryFilter{})
		require.NoError(t, err)
		for i := 1; i < len(images); i++ {
			assert.LessOrEqual(t, images[i-1].SortOrder, images[i].SortOrder)
		}
	})
}

func TestBlogSlugUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := &academy.BlogPost{ID: uuid.New(), Title: "A", Slug: "a", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateBlogPost(ctx, post))

	dup := &academy.BlogPost{ID: uuid.New(), Title: "B", Slug: "a", CreatedAt: time.Now()}
	assert.ErrorIs(t, repo.CreateBlogPost(ctx, dup), academy.ErrDuplicateSlug)

	exists, err := repo.BlogSlugExists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BlogSlugExists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := repo.GetBlogPostBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestBlogTagFilter(t *testing.T) {
	repo := New()
	ctx := context.Background()

	for i, tags := range [][]string{{"go", "backend"}, {"go"}, {"react"}} {
		require.NoError(t, repo.CreateBlogPost(ctx, &academy.BlogPost{
			ID:    uuid.New(),
			Title: fmt.Sprintf("p%d", i),
			Slug:  fmt.Sprintf("p%d", i),
			Tags:  tags,
		}))
	}

	tag := "go"
	_, total, err := repo.ListBlogPosts(ctx, academy.BlogFilter{Tag: &tag})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSetBlogAssetSlots(t *testing.T) {
	repo := New()
	ctx := context.Background()

	post := &academy.BlogPost{ID: uuid.New(), Title: "A", Slug: "a"}
	require.NoError(t, repo.CreateBlogPost(ctx, post))

	thumb := &academy.MediaAsset{URL: "u1", PublicID: "h1"}
	require.NoError(t, repo.SetBlogAsset(ctx, post.ID, academy.AssetSlotThumbnail, thumb, time.Now()))

	banner := &academy.MediaAsset{URL: "u2", PublicID: "h2"}
	require.NoError(t, repo.SetBlogAsset(ctx, post.ID, academy.AssetSlotBanner, banner, time.Now()))

	got, err := repo.GetBlogPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, thumb, got.Thumbnail)
	assert.Equal(t, banner, got.Banner)

	require.NoError(t, repo.SetBlogAsset(ctx, post.ID, academy.AssetSlotBanner, nil, time.Now()))
	got, err = repo.GetBlogPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Banner)
	assert.NotNil(t, got.Thumbnail)
}

func TestUserEmailUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	require.NoError(t, repo.CreateUserProfile(ctx, &academy.UserProfile{
		ID: uuid.New(), Name: "A", Email: "a@x.io",
	}))
	err := repo.CreateUserProfile(ctx, &academy.UserProfile{
		ID: uuid.New(), Name: "B", Email: "a@x.io",
	})
	assert.ErrorIs(t, err, academy.ErrDuplicateEmail)
}

func TestNewsletterUpsert(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := repo.UpsertSubscriber(ctx, "a@x.io", now)
	require.NoError(t, err)
	assert.True(t, first.Subscribed)

	require.NoError(t, repo.UnsubscribeByEmail(ctx, "a@x.io", now))

	second, err := repo.UpsertSubscriber(ctx, "a@x.io", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert must reuse the existing row")
	assert.True(t, second.Subscribed)

	assert.ErrorIs(t, repo.UnsubscribeByEmail(ctx, "ghost@x.io", now), academy.ErrNotFound)

	subs, total, err := repo.ListSubscribers(ctx, academy.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, subs, 1)
}

func TestBatchListing(t *testing.T) {
	repo := New()
	ctx := context.Background()

	courseID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateBatch(ctx, &academy.Batch{
			ID:       uuid.New(),
			CourseID: courseID,
			Name:     fmt.Sprintf("batch %d", i),
			StartsOn: time.Now().AddDate(0, 0, 7*i),
		}))
	}
	require.NoError(t, repo.CreateBatch(ctx, &academy.Batch{
		ID: uuid.New(), CourseID: uuid.New(), Name: "other course",
	}))

	batches, total, err := repo.ListBatchesByCourse(ctx, courseID, academy.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, batches, 3)
	for i := 1; i < len(batches); i++ {
		assert.True(t, !batches[i].StartsOn.Before(batches[i-1].StartsOn), "sorted by start date")
	}
}
