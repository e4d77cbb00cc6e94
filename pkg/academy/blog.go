package academy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Blog operations

func (s *service) CreateBlogPost(ctx context.Context, req CreateBlogPostRequest) (*BlogPost, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if req.Author == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidInput)
	}

	explicitSlug := req.Slug != ""
	slug := req.Slug
	if !explicitSlug {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be derived from title %q", ErrInvalidInput, req.Title)
	}

	exists, err := s.repository.BlogSlugExists(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		if explicitSlug {
			return nil, ErrDuplicateSlug
		}
		slug = SlugWithSuffix(slug)
	}

	now := time.Now().UTC()
	id := uuid.New()

	var thumbnail, banner *MediaAsset
	if req.Thumbnail != nil {
		thumbnail, err = s.storeAsset(ctx, *req.Thumbnail, blogThumbnailPolicy, id)
		if err != nil {
			return nil, err
		}
	}
	if req.Banner != nil {
		banner, err = s.storeAsset(ctx, *req.Banner, blogBannerPolicy, id)
		if err != nil {
			if thumbnail != nil {
				s.discardBlob(ctx, thumbnail.PublicID, "banner upload failed")
			}
			return nil, err
		}
	}

	post := &BlogPost{
		ID:        id,
		Title:     req.Title,
		Slug:      slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		Author:    req.Author,
		Tags:      req.Tags,
		Thumbnail: thumbnail,
		Banner:    banner,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Published {
		post.PublishedAt = &now
	}

	err = s.repository.CreateBlogPost(ctx, post)
	if errors.Is(err, ErrDuplicateSlug) && !explicitSlug {
		// Lost the race between the existence check and the insert; retry
		// once with a fresh suffix.
		post.Slug = SlugWithSuffix(Slugify(req.Title))
		err = s.repository.CreateBlogPost(ctx, post)
	}
	if err != nil {
		if thumbnail != nil {
			s.discardBlob(ctx, thumbnail.PublicID, "blog insert failed")
		}
		if banner != nil {
			s.discardBlob(ctx, banner.PublicID, "blog insert failed")
		}
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, err
		}
		if thumbnail != nil || banner != nil {
			return nil, &MediaError{Entity: "blog_post", ID: id, Op: "create", Kind: ErrPersistFailed, Err: err}
		}
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	return post, nil
}

func (s *service) GetBlogPost(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.repository.GetBlogPost(ctx, id)
}

func (s *service) GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return s.repository.GetBlogPostBySlug(ctx, slug)
}

func (s *service) UpdateBlogPost(ctx context.Context, id uuid.UUID, update BlogPostUpdate) (*BlogPost, error) {
	return s.repository.UpdateBlogPost(ctx, id, update)
}

func (s *service) ReplaceBlogAsset(ctx context.Context, id uuid.UUID, slot AssetSlot, upload AssetUpload) (*BlogPost, AssetOutcome, error) {
	post, err := s.repository.GetBlogPost(ctx, id)
	if err != nil {
		return nil, AssetOutcome{}, err
	}

	var policy assetPolicy
	var old *MediaAsset
	switch slot {
	case AssetSlotThumbnail:
		policy, old = blogThumbnailPolicy, post.Thumbnail
	case AssetSlotBanner:
		policy, old = blogBannerPolicy, post.Banner
	default:
		return nil, AssetOutcome{}, fmt.Errorf("%w: unknown asset slot %q", ErrInvalidInput, slot)
	}

	now := time.Now().UTC()
	asset, outcome, err := s.swapAsset(ctx, policy, id, upload, old,
		func(ctx context.Context, a MediaAsset) error {
			return s.repository.SetBlogAsset(ctx, id, slot, &a, now)
		})
	if err != nil {
		return nil, outcome, err
	}

	switch slot {
	case AssetSlotThumbnail:
		post.Thumbnail = asset
	case AssetSlotBanner:
		post.Banner = asset
	}
	post.UpdatedAt = now
	return post, outcome, nil
}

func (s *service) DeleteBlogPost(ctx context.Context, id uuid.UUID, removeAssets bool) (AssetOutcome, error) {
	var outcome AssetOutcome

	post, err := s.repository.GetBlogPost(ctx, id)
	if err != nil {
		return outcome, err
	}

	if removeAssets {
		var handles []string
		if post.Thumbnail != nil {
			handles = append(handles, post.Thumbnail.PublicID)
		}
		if post.Banner != nil {
			handles = append(handles, post.Banner.PublicID)
		}
		s.removeBlobs(ctx, &outcome, handles...)
	}

	if err := s.repository.DeleteBlogPost(ctx, id); err != nil {
		return outcome, &MediaError{Entity: "blog_post", ID: id, Op: "delete", Kind: ErrDeleteFailed, Err: err}
	}

	return outcome, nil
}

func (s *service) ListBlogPosts(ctx context.Context, filter BlogFilter) ([]*BlogPost, int, error) {
	return s.repository.ListBlogPosts(ctx, filter)
}
