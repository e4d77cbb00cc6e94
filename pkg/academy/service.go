package academy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service is the platform's business interface. Media-backed operations
// guarantee that the relational record and the object-store blob it
// references stay mutually consistent even though the two backing systems
// offer no shared transaction.
type Service interface {
	// Gallery
	CreateGalleryImage(ctx context.Context, req CreateGalleryImageRequest) (*GalleryImage, error)
	GetGalleryImage(ctx context.Context, id uuid.UUID) (*GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, id uuid.UUID, update GalleryImageUpdate) (*GalleryImage, error)
	ReplaceGalleryImage(ctx context.Context, id uuid.UUID, upload AssetUpload) (*GalleryImage, AssetOutcome, error)
	DeleteGalleryImage(ctx context.Context, id uuid.UUID, removeAsset bool) (AssetOutcome, error)
	ListGalleryImages(ctx context.Context, filter GalleryFilter) ([]*GalleryImage, int, error)

	// Blog
	CreateBlogPost(ctx context.Context, req CreateBlogPostRequest) (*BlogPost, error)
	GetBlogPost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	UpdateBlogPost(ctx context.Context, id uuid.UUID, update BlogPostUpdate) (*BlogPost, error)
	ReplaceBlogAsset(ctx context.Context, id uuid.UUID, slot AssetSlot, upload AssetUpload) (*BlogPost, AssetOutcome, error)
	DeleteBlogPost(ctx context.Context, id uuid.UUID, removeAssets bool) (AssetOutcome, error)
	ListBlogPosts(ctx context.Context, filter BlogFilter) ([]*BlogPost, int, error)

	// Users
	CreateUserProfile(ctx context.Context, req CreateUserProfileRequest) (*UserProfile, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, update UserProfileUpdate) (*UserProfile, error)
	SetUserPhoto(ctx context.Context, id uuid.UUID, upload AssetUpload) (*UserProfile, AssetOutcome, error)
	RemoveUserPhoto(ctx context.Context, id uuid.UUID) (AssetOutcome, error)
	DeleteUserProfile(ctx context.Context, id uuid.UUID, removePhoto bool) (AssetOutcome, error)
	ListUserProfiles(ctx context.Context, filter UserFilter) ([]*UserProfile, int, error)

	// Courses and batches
	CreateCourse(ctx context.Context, req CreateCourseRequest) (*Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, update CourseUpdate) (*Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	ListCourses(ctx context.Context, filter CourseFilter) ([]*Course, int, error)
	CreateBatch(ctx context.Context, req CreateBatchRequest) (*Batch, error)
	GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error)
	ListBatchesByCourse(ctx context.Context, courseID uuid.UUID, page PageRequest) ([]*Batch, int, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error

	// Quotes and newsletter
	SubmitQuote(ctx context.Context, req SubmitQuoteRequest) (*QuoteRequest, error)
	GetQuoteRequest(ctx context.Context, id uuid.UUID) (*QuoteRequest, error)
	SetQuoteStatus(ctx context.Context, id uuid.UUID, status QuoteStatus) error
	ListQuoteRequests(ctx context.Context, filter QuoteFilter) ([]*QuoteRequest, int, error)
	Subscribe(ctx context.Context, email string) (*NewsletterSubscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, page PageRequest) ([]*NewsletterSubscriber, int, error)
}

// service implements the Service interface
type service struct {
	repository Repository
	blobs      BlobStore
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object store client for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithLogger sets the logger used for compensation and warning logs
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}
