package academy

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// AssetUpload carries the bytes and declared attributes of an inbound
// upload. Size is the declared length; it is validated against the entity's
// policy before any side effect happens.
type AssetUpload struct {
	Data     io.Reader
	Size     int64
	MimeType string
	FileName string
}

// CreateGalleryImageRequest contains the parameters for creating a gallery
// image together with its mandatory upload.
type CreateGalleryImageRequest struct {
	Title     string
	AltText   string
	SortOrder int
	Active    bool
	Upload    AssetUpload
}

// CreateBlogPostRequest contains the parameters for creating a blog post.
// Slug is optional; when empty one is derived from the title. Thumbnail and
// banner uploads are both optional.
type CreateBlogPostRequest struct {
	Title     string
	Slug      string
	Excerpt   string
	Body      string
	Author    string
	Tags      []string
	Published bool
	Thumbnail *AssetUpload
	Banner    *AssetUpload
}

// CreateUserProfileRequest contains the parameters for creating a user
// profile with an optional photo upload.
type CreateUserProfileRequest struct {
	Name  string
	Email string
	Bio   string
	Photo *AssetUpload
}

// CreateCourseRequest contains the parameters for creating a course.
// Slug is optional; when empty one is derived from the title.
type CreateCourseRequest struct {
	Title         string
	Slug          string
	Description   string
	DurationWeeks int
	FeeCents      int64
	Active        bool
}

// CreateBatchRequest contains the parameters for scheduling a batch.
type CreateBatchRequest struct {
	CourseID uuid.UUID
	Name     string
	StartsOn time.Time
	Schedule string
	Capacity int
}

// SubmitQuoteRequest contains the parameters for an inbound quote inquiry.
type SubmitQuoteRequest struct {
	Name     string
	Email    string
	Phone    string
	CourseID *uuid.UUID
	Message  string
}
