package academy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// assetPolicy constrains what an entity accepts as media and where its
// blobs live in the object store.
type assetPolicy struct {
	entity    string
	namespace string
	maxBytes  int64
	mimeTypes map[string]struct{}
}

func allowTypes(types ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

var (
	galleryAssetPolicy = assetPolicy{
		entity:    "gallery_image",
		namespace: "gallery",
		maxBytes:  10 << 20,
		mimeTypes: allowTypes("image/jpeg", "image/png", "image/webp", "image/gif"),
	}
	blogThumbnailPolicy = assetPolicy{
		entity:    "blog_post",
		namespace: "blogs/thumbnails",
		maxBytes:  10 << 20,
		mimeTypes: allowTypes("image/jpeg", "image/png", "image/webp"),
	}
	blogBannerPolicy = assetPolicy{
		entity:    "blog_post",
		namespace: "blogs/banners",
		maxBytes:  10 << 20,
		mimeTypes: allowTypes("image/jpeg", "image/png", "image/webp", "image/gif"),
	}
	userPhotoPolicy = assetPolicy{
		entity:    "user_profile",
		namespace: "users/profiles",
		maxBytes:  5 << 20,
		mimeTypes: allowTypes("image/jpeg", "image/png", "image/webp"),
	}
)

func (p assetPolicy) validate(up AssetUpload) error {
	if _, ok := p.mimeTypes[up.MimeType]; !ok {
		return fmt.Errorf("mime type %q is not allowed", up.MimeType)
	}
	if up.Size <= 0 {
		return fmt.Errorf("asset size must be greater than zero")
	}
	if up.Size > p.maxBytes {
		return fmt.Errorf("asset size %d exceeds maximum of %d bytes", up.Size, p.maxBytes)
	}
	if up.Data == nil {
		return fmt.Errorf("asset data is required")
	}
	return nil
}

// storeAsset validates the upload against the policy and pushes it to the
// object store. Nothing has been persisted when this fails, so there is no
// compensation to run.
func (s *service) storeAsset(ctx context.Context, up AssetUpload, policy assetPolicy, id uuid.UUID) (*MediaAsset, error) {
	if err := policy.validate(up); err != nil {
		return nil, &MediaError{Entity: policy.entity, ID: id, Op: "validate", Kind: ErrInvalidAsset, Err: err}
	}

	stored, err := s.blobs.Upload(ctx, up.Data, UploadParams{
		Namespace: policy.namespace,
		FileName:  up.FileName,
		MimeType:  up.MimeType,
	})
	if err != nil {
		return nil, &MediaError{Entity: policy.entity, ID: id, Op: "upload", Kind: ErrUploadFailed, Err: err}
	}

	return &MediaAsset{URL: stored.URL, PublicID: stored.Handle}, nil
}

// discardBlob issues a best-effort blob delete and reports whether it
// succeeded. The attempt and its outcome are always logged; a failure here
// never changes the error kind reported to the caller.
func (s *service) discardBlob(ctx context.Context, handle, reason string) bool {
	if handle == "" {
		return true
	}
	if err := s.blobs.Delete(ctx, handle); err != nil {
		s.logger.ErrorContext(ctx, "blob delete failed",
			"handle", handle,
			"reason", reason,
			"error", err,
		)
		return false
	}
	s.logger.InfoContext(ctx, "blob deleted", "handle", handle, "reason", reason)
	return true
}

// swapAsset uploads the replacement, commits the row update, then removes
// the superseded blob. The old blob is never deleted before the row update
// confirming the new reference has succeeded; if the commit fails the new
// blob is discarded and the prior state is left intact.
func (s *service) swapAsset(
	ctx context.Context,
	policy assetPolicy,
	id uuid.UUID,
	up AssetUpload,
	old *MediaAsset,
	commit func(context.Context, MediaAsset) error,
) (*MediaAsset, AssetOutcome, error) {
	var outcome AssetOutcome

	asset, err := s.storeAsset(ctx, up, policy, id)
	if err != nil {
		return nil, outcome, err
	}

	if err := commit(ctx, *asset); err != nil {
		s.discardBlob(ctx, asset.PublicID, "row update failed")
		return nil, outcome, &MediaError{Entity: policy.entity, ID: id, Op: "replace", Kind: ErrPersistFailed, Err: err}
	}

	if old != nil && old.PublicID != "" {
		if !s.discardBlob(ctx, old.PublicID, "superseded") {
			// The row already points at the new blob, so the user-visible
			// state is correct. The leak is reported, not escalated.
			outcome.Orphaned = append(outcome.Orphaned, old.PublicID)
		}
	}

	return asset, outcome, nil
}

// removeBlobs deletes blobs ahead of a row delete. Failures are recorded as
// orphans and never block the row delete: a dangling blob is less harmful
// than a record the client cannot delete because of a store outage.
func (s *service) removeBlobs(ctx context.Context, outcome *AssetOutcome, handles ...string) {
	for _, h := range handles {
		if h == "" {
			continue
		}
		if !s.discardBlob(ctx, h, "record delete") {
			outcome.Orphaned = append(outcome.Orphaned, h)
		}
	}
}
