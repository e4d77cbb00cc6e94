package academy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User operations

func (s *service) CreateUserProfile(ctx context.Context, req CreateUserProfileRequest) (*UserProfile, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	id := uuid.New()

	var photo *MediaAsset
	if req.Photo != nil {
		var err error
		photo, err = s.storeAsset(ctx, *req.Photo, userPhotoPolicy, id)
		if err != nil {
			return nil, err
		}
	}

	user := &UserProfile{
		ID:        id,
		Name:      req.Name,
		Email:     email,
		Bio:       req.Bio,
		Photo:     photo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateUserProfile(ctx, user); err != nil {
		if photo != nil {
			s.discardBlob(ctx, photo.PublicID, "user insert failed")
			return nil, &MediaError{Entity: "user_profile", ID: id, Op: "create", Kind: ErrPersistFailed, Err: err}
		}
		return nil, fmt.Errorf("create user profile: %w", err)
	}

	return user, nil
}

func (s *service) GetUserProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	return s.repository.GetUserProfile(ctx, id)
}

func (s *service) UpdateUserProfile(ctx context.Context, id uuid.UUID, update UserProfileUpdate) (*UserProfile, error) {
	return s.repository.UpdateUserProfile(ctx, id, update)
}

func (s *service) SetUserPhoto(ctx context.Context, id uuid.UUID, upload AssetUpload) (*UserProfile, AssetOutcome, error) {
	user, err := s.repository.GetUserProfile(ctx, id)
	if err != nil {
		return nil, AssetOutcome{}, err
	}

	now := time.Now().UTC()
	asset, outcome, err := s.swapAsset(ctx, userPhotoPolicy, id, upload, user.Photo,
		func(ctx context.Context, a MediaAsset) error {
			return s.repository.SetUserPhoto(ctx, id, &a, now)
		})
	if err != nil {
		return nil, outcome, err
	}

	user.Photo = asset
	user.UpdatedAt = now
	return user, outcome, nil
}

func (s *service) RemoveUserPhoto(ctx context.Context, id uuid.UUID) (AssetOutcome, error) {
	var outcome AssetOutcome

	user, err := s.repository.GetUserProfile(ctx, id)
	if err != nil {
		return outcome, err
	}
	if user.Photo == nil {
		return outcome, nil
	}

	// Blob first, then clear the reference: minimizes the window in which
	// the row points at a deleted blob, same trade-off as record deletion.
	s.removeBlobs(ctx, &outcome, user.Photo.PublicID)

	if err := s.repository.SetUserPhoto(ctx, id, nil, time.Now().UTC()); err != nil {
		return outcome, &MediaError{Entity: "user_profile", ID: id, Op: "remove_photo", Kind: ErrPersistFailed, Err: err}
	}

	return outcome, nil
}

func (s *service) DeleteUserProfile(ctx context.Context, id uuid.UUID, removePhoto bool) (AssetOutcome, error) {
	var outcome AssetOutcome

	user, err := s.repository.GetUserProfile(ctx, id)
	if err != nil {
		return outcome, err
	}

	if removePhoto && user.Photo != nil {
		s.removeBlobs(ctx, &outcome, user.Photo.PublicID)
	}

	if err := s.repository.DeleteUserProfile(ctx, id); err != nil {
		return outcome, &MediaError{Entity: "user_profile", ID: id, Op: "delete", Kind: ErrDeleteFailed, Err: err}
	}

	return outcome, nil
}

func (s *service) ListUserProfiles(ctx context.Context, filter UserFilter) ([]*UserProfile, int, error) {
	return s.repository.ListUserProfiles(ctx, filter)
}
