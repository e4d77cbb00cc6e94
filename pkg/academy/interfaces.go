package academy

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// StoredAsset is what the object store hands back after a successful
// upload: a durable URL plus the handle needed to delete the blob.
type StoredAsset struct {
	URL    string
	Handle string
}

// UploadParams carries the parameters for an object store upload.
type UploadParams struct {
	Namespace string
	FileName  string
	MimeType  string
}

// BlobStore is the object store consumed by the media lifecycle. Calls are
// independently fallible and have no transactional link to the repository.
type BlobStore interface {
	// Upload stores the bytes under the given namespace and returns the
	// durable URL and deletable handle.
	Upload(ctx context.Context, reader io.Reader, params UploadParams) (*StoredAsset, error)

	// Delete removes the blob named by handle.
	Delete(ctx context.Context, handle string) error
}

// Repository defines persistence for all platform entities. Row lifetime is
// owned here; blob lifetime is owned by the BlobStore; the service owns the
// cross-reference between the two.
type Repository interface {
	// Gallery operations
	CreateGalleryImage(ctx context.Context, img *GalleryImage) error
	GetGalleryImage(ctx context.Context, id uuid.UUID) (*GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, id uuid.UUID, update GalleryImageUpdate) (*GalleryImage, error)
	SetGalleryAsset(ctx context.Context, id uuid.UUID, asset MediaAsset, updatedAt time.Time) error
	DeleteGalleryImage(ctx context.Context, id uuid.UUID) error
	ListGalleryImages(ctx context.Context, filter GalleryFilter) ([]*GalleryImage, int, error)

	// Blog operations
	CreateBlogPost(ctx context.Context, post *BlogPost) error
	GetBlogPost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
	BlogSlugExists(ctx context.Context, slug string) (bool, error)
	UpdateBlogPost(ctx context.Context, id uuid.UUID, update BlogPostUpdate) (*BlogPost, error)
	SetBlogAsset(ctx context.Context, id uuid.UUID, slot AssetSlot, asset *MediaAsset, updatedAt time.Time) error
	DeleteBlogPost(ctx context.Context, id uuid.UUID) error
	ListBlogPosts(ctx context.Context, filter BlogFilter) ([]*BlogPost, int, error)

	// User operations
	CreateUserProfile(ctx context.Context, user *UserProfile) error
	GetUserProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	UpdateUserProfile(ctx context.Context, id uuid.UUID, update UserProfileUpdate) (*UserProfile, error)
	SetUserPhoto(ctx context.Context, id uuid.UUID, photo *MediaAsset, updatedAt time.Time) error
	DeleteUserProfile(ctx context.Context, id uuid.UUID) error
	ListUserProfiles(ctx context.Context, filter UserFilter) ([]*UserProfile, int, error)

	// Course operations
	CreateCourse(ctx context.Context, course *Course) error
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*Course, error)
	CourseSlugExists(ctx context.Context, slug string) (bool, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, update CourseUpdate) (*Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	ListCourses(ctx context.Context, filter CourseFilter) ([]*Course, int, error)

	// Batch operations
	CreateBatch(ctx context.Context, batch *Batch) error
	GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error)
	ListBatchesByCourse(ctx context.Context, courseID uuid.UUID, page PageRequest) ([]*Batch, int, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error

	// Quote operations
	CreateQuoteRequest(ctx context.Context, quote *QuoteRequest) error
	GetQuoteRequest(ctx context.Context, id uuid.UUID) (*QuoteRequest, error)
	SetQuoteStatus(ctx context.Context, id uuid.UUID, status QuoteStatus) error
	ListQuoteRequests(ctx context.Context, filter QuoteFilter) ([]*QuoteRequest, int, error)

	// Newsletter operations
	UpsertSubscriber(ctx context.Context, email string, now time.Time) (*NewsletterSubscriber, error)
	UnsubscribeByEmail(ctx context.Context, email string, now time.Time) error
	ListSubscribers(ctx context.Context, page PageRequest) ([]*NewsletterSubscriber, int, error)
}
