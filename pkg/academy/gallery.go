package academy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Gallery operations

func (s *service) CreateGalleryImage(ctx context.Context, req CreateGalleryImageRequest) (*GalleryImage, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	id := uuid.New()

	asset, err := s.storeAsset(ctx, req.Upload, galleryAssetPolicy, id)
	if err != nil {
		return nil, err
	}

	img := &GalleryImage{
		ID:        id,
		Title:     req.Title,
		AltText:   req.AltText,
		SortOrder: req.SortOrder,
		Active:    req.Active,
		Asset:     *asset,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateGalleryImage(ctx, img); err != nil {
		s.discardBlob(ctx, asset.PublicID, "gallery insert failed")
		return nil, &MediaError{Entity: "gallery_image", ID: id, Op: "create", Kind: ErrPersistFailed, Err: err}
	}

	return img, nil
}

func (s *service) GetGalleryImage(ctx context.Context, id uuid.UUID) (*GalleryImage, error) {
	return s.repository.GetGalleryImage(ctx, id)
}

func (s *service) UpdateGalleryImage(ctx context.Context, id uuid.UUID, update GalleryImageUpdate) (*GalleryImage, error) {
	return s.repository.UpdateGalleryImage(ctx, id, update)
}

func (s *service) ReplaceGalleryImage(ctx context.Context, id uuid.UUID, upload AssetUpload) (*GalleryImage, AssetOutcome, error) {
	img, err := s.repository.GetGalleryImage(ctx, id)
	if err != nil {
		return nil, AssetOutcome{}, err
	}

	now := time.Now().UTC()
	old := img.Asset

	asset, outcome, err := s.swapAsset(ctx, galleryAssetPolicy, id, upload, &old,
		func(ctx context.Context, a MediaAsset) error {
			return s.repository.SetGalleryAsset(ctx, id, a, now)
		})
	if err != nil {
		return nil, outcome, err
	}

	img.Asset = *asset
	img.UpdatedAt = now
	return img, outcome, nil
}

func (s *service) DeleteGalleryImage(ctx context.Context, id uuid.UUID, removeAsset bool) (AssetOutcome, error) {
	var outcome AssetOutcome

	img, err := s.repository.GetGalleryImage(ctx, id)
	if err != nil {
		return outcome, err
	}

	if removeAsset {
		s.removeBlobs(ctx, &outcome, img.Asset.PublicID)
	}

	if err := s.repository.DeleteGalleryImage(ctx, id); err != nil {
		return outcome, &MediaError{Entity: "gallery_image", ID: id, Op: "delete", Kind: ErrDeleteFailed, Err: err}
	}

	return outcome, nil
}

func (s *service) ListGalleryImages(ctx context.Context, filter GalleryFilter) ([]*GalleryImage, int, error) {
	return s.repository.ListGalleryImages(ctx, filter)
}
