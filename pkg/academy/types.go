package academy

import (
	"time"

	"github.com/google/uuid"
)

// MediaAsset is the stored reference to an uploaded binary held by the
// object store: a durable URL for serving plus the handle needed to
// delete the blob later.
type MediaAsset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// AssetOutcome reports the blob-side result of a lifecycle operation.
// Orphaned lists handles of blobs the operation meant to remove but could
// not; the record state is already correct, so the leak is a warning for
// operators, not an error for callers.
type AssetOutcome struct {
	Orphaned []string `json:"orphaned,omitempty"`
}

// Clean reports whether the operation left no orphaned blobs behind.
func (o AssetOutcome) Clean() bool { return len(o.Orphaned) == 0 }

// GalleryImage is a media-backed gallery entry. The asset is mandatory:
// a gallery image without a blob does not exist.
type GalleryImage struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	AltText   string     `json:"alt_text,omitempty"`
	SortOrder int        `json:"sort_order"`
	Active    bool       `json:"active"`
	Asset     MediaAsset `json:"asset"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BlogPost is a content entry with optional thumbnail and banner assets.
type BlogPost struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Excerpt     string      `json:"excerpt,omitempty"`
	Body        string      `json:"body"`
	Author      string      `json:"author"`
	Tags        []string    `json:"tags,omitempty"`
	Thumbnail   *MediaAsset `json:"thumbnail,omitempty"`
	Banner      *MediaAsset `json:"banner,omitempty"`
	Published   bool        `json:"published"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AssetSlot names one of the media positions a blog post can carry.
type AssetSlot string

const (
	AssetSlotThumbnail AssetSlot = "thumbnail"
	AssetSlotBanner    AssetSlot = "banner"
)

// UserProfile is an account profile with an optional photo asset.
type UserProfile struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Bio       string      `json:"bio,omitempty"`
	Photo     *MediaAsset `json:"photo,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Course is a catalog entry for an offered course.
type Course struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	DurationWeeks int       `json:"duration_weeks"`
	FeeCents      int64     `json:"fee_cents"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Batch is a scheduled run of a course.
type Batch struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Name      string    `json:"name"`
	StartsOn  time.Time `json:"starts_on"`
	Schedule  string    `json:"schedule,omitempty"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteStatus is the domain type for quote-request handling states.
type QuoteStatus string

// Quote status constants (typed).
const (
	QuoteStatusNew       QuoteStatus = "new"
	QuoteStatusContacted QuoteStatus = "contacted"
	QuoteStatusClosed    QuoteStatus = "closed"
)

// IsValid reports whether the status is one of the known states.
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusNew, QuoteStatusContacted, QuoteStatusClosed:
		return true
	}
	return false
}

// QuoteRequest is an inbound sales inquiry.
type QuoteRequest struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	CourseID  *uuid.UUID  `json:"course_id,omitempty"`
	Message   string      `json:"message,omitempty"`
	Status    QuoteStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewsletterSubscriber is a mailing-list entry.
type NewsletterSubscriber struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PageRequest carries pagination bounds. Values outside the allowed range
// are clamped by the repositories, never rejected.
type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// GalleryFilter selects gallery images for listing. Nil fields are omitted
// from the predicate entirely.
type GalleryFilter struct {
	Active *bool
	Search string
	Page   PageRequest
}

// BlogFilter selects blog posts for listing.
type BlogFilter struct {
	Author    *string
	Published *bool
	Tag       *string
	Search    string
	Page      PageRequest
}

// UserFilter selects user profiles for listing.
type UserFilter struct {
	Search string
	Page   PageRequest
}

// CourseFilter selects courses for listing.
type CourseFilter struct {
	Active *bool
	Search string
	Page   PageRequest
}

// QuoteFilter selects quote requests for listing.
type QuoteFilter struct {
	Status *QuoteStatus
	Search string
	Page   PageRequest
}

// GalleryImageUpdate is a sparse update: nil fields are left untouched.
type GalleryImageUpdate struct {
	Title     *string
	AltText   *string
	SortOrder *int
	Active    *bool
}

// Empty reports whether the update carries no usable fields.
func (u GalleryImageUpdate) Empty() bool {
	return u.Title == nil && u.AltText == nil && u.SortOrder == nil && u.Active == nil
}

// BlogPostUpdate is a sparse update for blog post text fields.
type BlogPostUpdate struct {
	Title     *string
	Excerpt   *string
	Body      *string
	Tags      *[]string
	Published *bool
}

// Empty reports whether the update carries no usable fields.
func (u BlogPostUpdate) Empty() bool {
	return u.Title == nil && u.Excerpt == nil && u.Body == nil && u.Tags == nil && u.Published == nil
}

// UserProfileUpdate is a sparse update for profile text fields.
type UserProfileUpdate struct {
	Name *string
	Bio  *string
}

// Empty reports whether the update carries no usable fields.
func (u UserProfileUpdate) Empty() bool {
	return u.Name == nil && u.Bio == nil
}

// CourseUpdate is a sparse update for course fields.
type CourseUpdate struct {
	Title         *string
	Description   *string
	DurationWeeks *int
	FeeCents      *int64
	Active        *bool
}

// Empty reports whether the update carries no usable fields.
func (u CourseUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DurationWeeks == nil &&
		u.FeeCents == nil && u.Active == nil
}
