// Package postgres implements academy.Repository using PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/academy/pkg/academy"
	"github.com/campuskit/academy/pkg/academy/sqlgen"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements academy.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) academy.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) academy.Repository {
	return &Repository{db: pool}
}

// handlePostgresError maps driver errors onto the domain sentinels.
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return academy.ErrDuplicateSlug
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return academy.ErrDuplicateEmail
			}
			return fmt.Errorf("duplicate entry in %s: %w", operation, err)
		case "23503": // foreign_key_violation
			return academy.ErrNotFound
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return academy.ErrNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// asset splits an optional URL/handle column pair into a MediaAsset.
func asset(url, publicID *string) *academy.MediaAsset {
	if url == nil || publicID == nil {
		return nil
	}
	return &academy.MediaAsset{URL: *url, PublicID: *publicID}
}

// assetColumns is the inverse of asset for bind parameters.
func assetColumns(a *academy.MediaAsset) (*string, *string) {
	if a == nil {
		return nil, nil
	}
	return &a.URL, &a.PublicID
}

// Gallery operations

const galleryColumns = "id, title, alt_text, sort_order, active, image_url, public_id, created_at, updated_at"

func scanGalleryImage(row pgx.Row) (*academy.GalleryImage, error) {
	var img academy.GalleryImage
	err := row.Scan(&img.ID, &img.Title, &img.AltText, &img.SortOrder, &img.Active,
		&img.Asset.URL, &img.Asset.PublicID, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *Repository) CreateGalleryImage(ctx context.Context, img *academy.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (
			id, title, alt_text, sort_order, active, image_url, public_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		img.ID, img.Title, img.AltText, img.SortOrder, img.Active,
		img.Asset.URL, img.Asset.PublicID, img.CreatedAt, img.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create gallery image", err)
	}
	return nil
}

func (r *Repository) GetGalleryImage(ctx context.Context, id uuid.UUID) (*academy.GalleryImage, error) {
	query := "SELECT " + galleryColumns + " FROM gallery_images WHERE id = $1"
	img, err := scanGalleryImage(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get gallery image", err)
	}
	return img, nil
}

func (r *Repository) UpdateGalleryImage(ctx context.Context, id uuid.UUID, update academy.GalleryImageUpdate) (*academy.GalleryImage, error) {
	u := sqlgen.NewUpdate("gallery_images", "updated_at")
	if update.Title != nil {
		u.Set("title", *update.Title)
	}
	if update.AltText != nil {
		u.Set("alt_text", *update.AltText)
	}
	if update.SortOrder != nil {
		u.Set("sort_order", *update.SortOrder)
	}
	if update.Active != nil {
		u.Set("active", *update.Active)
	}
	if u.Empty() {
		return r.GetGalleryImage(ctx, id)
	}

	stmt, args := u.Build("id", id, time.Now().UTC())
	img, err := scanGalleryImage(r.db.QueryRow(ctx, stmt+" RETURNING "+galleryColumns, args...))
	if err != nil {
		return nil, r.handlePostgresError("update gallery image", err)
	}
	return img, nil
}

func (r *Repository) SetGalleryAsset(ctx context.Context, id uuid.UUID, a academy.MediaAsset, updatedAt time.Time) error {
	query := `UPDATE gallery_images SET image_url = $2, public_id = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, a.URL, a.PublicID, updatedAt)
	if err != nil {
		return r.handlePostgresError("set gallery asset", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteGalleryImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM gallery_images WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete gallery image", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListGalleryImages(ctx context.Context, filter academy.GalleryFilter) ([]*academy.GalleryImage, int, error) {
	q := sqlgen.NewQuery("gallery_images", strings.Split(galleryColumns, ", ")...).
		OrderBy("sort_order ASC, created_at DESC").
		Page(filter.Page.Limit, filter.Page.Offset)
	if filter.Active != nil {
		q.Where("active", "=", *filter.Active)
	}
	q.Search(filter.Search, "title", "alt_text")

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count gallery images", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list gallery images", err)
	}
	defer rows.Close()

	var images []*academy.GalleryImage
	for rows.Next() {
		img, err := scanGalleryImage(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan gallery image", err)
		}
		images = append(images, img)
	}
	return images, total, rows.Err()
}

// Blog operations

const blogColumns = "id, title, slug, excerpt, body, author, tags, thumbnail_url, thumbnail_id, banner_url, banner_id, published, published_at, created_at, updated_at"

func scanBlogPost(row pgx.Row) (*academy.BlogPost, error) {
	var post academy.BlogPost
	var thumbURL, thumbID, bannerURL, bannerID *string
	err := row.Scan(&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Body,
		&post.Author, &post.Tags, &thumbURL, &thumbID, &bannerURL, &bannerID,
		&post.Published, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.Thumbnail = asset(thumbURL, thumbID)
	post.Banner = asset(bannerURL, bannerID)
	return &post, nil
}

func (r *Repository) CreateBlogPost(ctx context.Context, post *academy.BlogPost) error {
	query := `
		INSERT INTO blog_posts (
			id, title, slug, excerpt, body, author, tags,
			thumbnail_url, thumbnail_id, banner_url, banner_id,
			published, published_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	thumbURL, thumbID := assetColumns(post.Thumbnail)
	bannerURL, bannerID := assetColumns(post.Banner)
	_, err := r.db.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Body, post.Author, post.Tags,
		thumbURL, thumbID, bannerURL, bannerID,
		post.Published, post.PublishedAt, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create blog post", err)
	}
	return nil
}

func (r *Repository) GetBlogPost(ctx context.Context, id uuid.UUID) (*academy.BlogPost, error) {
	query := "SELECT " + blogColumns + " FROM blog_posts WHERE id = $1"
	post, err := scanBlogPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get blog post", err)
	}
	return post, nil
}

func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string) (*academy.BlogPost, error) {
	query := "SELECT " + blogColumns + " FROM blog_posts WHERE slug = $1"
	post, err := scanBlogPost(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, r.handlePostgresError("get blog post by slug", err)
	}
	return post, nil
}

func (r *Repository) BlogSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return false, r.handlePostgresError("check blog slug", err)
	}
	return exists, nil
}

func (r *Repository) UpdateBlogPost(ctx context.Context, id uuid.UUID, update academy.BlogPostUpdate) (*academy.BlogPost, error) {
	u := sqlgen.NewUpdate("blog_posts", "updated_at")
	if update.Title != nil {
		u.Set("title", *update.Title)
	}
	if update.Excerpt != nil {
		u.Set("excerpt", *update.Excerpt)
	}
	if update.Body != nil {
		u.Set("body", *update.Body)
	}
	if update.Tags != nil {
		u.Set("tags", *update.Tags)
	}
	if update.Published != nil {
		u.Set("published", *update.Published)
		if *update.Published {
			u.Set("published_at", time.Now().UTC())
		}
	}
	if u.Empty() {
		return r.GetBlogPost(ctx, id)
	}

	stmt, args := u.Build("id", id, time.Now().UTC())
	post, err := scanBlogPost(r.db.QueryRow(ctx, stmt+" RETURNING "+blogColumns, args...))
	if err != nil {
		return nil, r.handlePostgresError("update blog post", err)
	}
	return post, nil
}

func (r *Repository) SetBlogAsset(ctx context.Context, id uuid.UUID, slot academy.AssetSlot, a *academy.MediaAsset, updatedAt time.Time) error {
	var urlCol, idCol string
	switch slot {
	case academy.AssetSlotThumbnail:
		urlCol, idCol = "thumbnail_url", "thumbnail_id"
	case academy.AssetSlotBanner:
		urlCol, idCol = "banner_url", "banner_id"
	default:
		return fmt.Errorf("unknown asset slot %q", slot)
	}

	url, publicID := assetColumns(a)
	query := fmt.Sprintf("UPDATE blog_posts SET %s = $2, %s = $3, updated_at = $4 WHERE id = $1", urlCol, idCol)
	tag, err := r.db.Exec(ctx, query, id, url, publicID, updatedAt)
	if err != nil {
		return r.handlePostgresError("set blog asset", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM blog_posts WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete blog post", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListBlogPosts(ctx context.Context, filter academy.BlogFilter) ([]*academy.BlogPost, int, error) {
	q := sqlgen.NewQuery("blog_posts", strings.Split(blogColumns, ", ")...).
		OrderBy("created_at DESC").
		Page(filter.Page.Limit, filter.Page.Offset)
	if filter.Author != nil {
		q.Where("author", "=", *filter.Author)
	}
	if filter.Published != nil {
		q.Where("published", "=", *filter.Published)
	}
	if filter.Tag != nil {
		q.Where("tags", "@>", []string{*filter.Tag})
	}
	q.Search(filter.Search, "title", "excerpt")

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count blog posts", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list blog posts", err)
	}
	defer rows.Close()

	var posts []*academy.BlogPost
	for rows.Next() {
		post, err := scanBlogPost(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan blog post", err)
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

// User operations

const userColumns = "id, name, email, bio, photo_url, photo_id, created_at, updated_at"

func scanUserProfile(row pgx.Row) (*academy.UserProfile, error) {
	var user academy.UserProfile
	var photoURL, photoID *string
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Bio,
		&photoURL, &photoID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Photo = asset(photoURL, photoID)
	return &user, nil
}

func (r *Repository) CreateUserProfile(ctx context.Context, user *academy.UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			id, name, email, bio, photo_url, photo_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	photoURL, photoID := assetColumns(user.Photo)
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Bio, photoURL, photoID,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create user profile", err)
	}
	return nil
}

func (r *Repository) GetUserProfile(ctx context.Context, id uuid.UUID) (*academy.UserProfile, error) {
	query := "SELECT " + userColumns + " FROM user_profiles WHERE id = $1"
	user, err := scanUserProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get user profile", err)
	}
	return user, nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, update academy.UserProfileUpdate) (*academy.UserProfile, error) {
	u := sqlgen.NewUpdate("user_profiles", "updated_at")
	if update.Name != nil {
		u.Set("name", *update.Name)
	}
	if update.Bio != nil {
		u.Set("bio", *update.Bio)
	}
	if u.Empty() {
		return r.GetUserProfile(ctx, id)
	}

	stmt, args := u.Build("id", id, time.Now().UTC())
	user, err := scanUserProfile(r.db.QueryRow(ctx, stmt+" RETURNING "+userColumns, args...))
	if err != nil {
		return nil, r.handlePostgresError("update user profile", err)
	}
	return user, nil
}

func (r *Repository) SetUserPhoto(ctx context.Context, id uuid.UUID, photo *academy.MediaAsset, updatedAt time.Time) error {
	url, publicID := assetColumns(photo)
	query := `UPDATE user_profiles SET photo_url = $2, photo_id = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, url, publicID, updatedAt)
	if err != nil {
		return r.handlePostgresError("set user photo", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteUserProfile(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM user_profiles WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete user profile", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListUserProfiles(ctx context.Context, filter academy.UserFilter) ([]*academy.UserProfile, int, error) {
	q := sqlgen.NewQuery("user_profiles", strings.Split(userColumns, ", ")...).
		OrderBy("created_at DESC").
		Page(filter.Page.Limit, filter.Page.Offset)
	q.Search(filter.Search, "name", "email")

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count user profiles", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list user profiles", err)
	}
	defer rows.Close()

	var users []*academy.UserProfile
	for rows.Next() {
		user, err := scanUserProfile(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan user profile", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// Course operations

const courseColumns = "id, title, slug, description, duration_weeks, fee_cents, active, created_at, updated_at"

func scanCourse(row pgx.Row) (*academy.Course, error) {
	var course academy.Course
	err := row.Scan(&course.ID, &course.Title, &course.Slug, &course.Description,
		&course.DurationWeeks, &course.FeeCents, &course.Active,
		&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *Repository) CreateCourse(ctx context.Context, course *academy.Course) error {
	query := `
		INSERT INTO courses (
			id, title, slug, description, duration_weeks, fee_cents, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		course.ID, course.Title, course.Slug, course.Description,
		course.DurationWeeks, course.FeeCents, course.Active,
		course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create course", err)
	}
	return nil
}

func (r *Repository) GetCourse(ctx context.Context, id uuid.UUID) (*academy.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses WHERE id = $1"
	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get course", err)
	}
	return course, nil
}

func (r *Repository) GetCourseBySlug(ctx context.Context, slug string) (*academy.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses WHERE slug = $1"
	course, err := scanCourse(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, r.handlePostgresError("get course by slug", err)
	}
	return course, nil
}

func (r *Repository) CourseSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return false, r.handlePostgresError("check course slug", err)
	}
	return exists, nil
}

func (r *Repository) UpdateCourse(ctx context.Context, id uuid.UUID, update academy.CourseUpdate) (*academy.Course, error) {
	u := sqlgen.NewUpdate("courses", "updated_at")
	if update.Title != nil {
		u.Set("title", *update.Title)
	}
	if update.Description != nil {
		u.Set("description", *update.Description)
	}
	if update.DurationWeeks != nil {
		u.Set("duration_weeks", *update.DurationWeeks)
	}
	if update.FeeCents != nil {
		u.Set("fee_cents", *update.FeeCents)
	}
	if update.Active != nil {
		u.Set("active", *update.Active)
	}
	if u.Empty() {
		return r.GetCourse(ctx, id)
	}

	stmt, args := u.Build("id", id, time.Now().UTC())
	course, err := scanCourse(r.db.QueryRow(ctx, stmt+" RETURNING "+courseColumns, args...))
	if err != nil {
		return nil, r.handlePostgresError("update course", err)
	}
	return course, nil
}

func (r *Repository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete course", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListCourses(ctx context.Context, filter academy.CourseFilter) ([]*academy.Course, int, error) {
	q := sqlgen.NewQuery("courses", strings.Split(courseColumns, ", ")...).
		OrderBy("created_at DESC").
		Page(filter.Page.Limit, filter.Page.Offset)
	if filter.Active != nil {
		q.Where("active", "=", *filter.Active)
	}
	q.Search(filter.Search, "title", "description")

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count courses", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list courses", err)
	}
	defer rows.Close()

	var courses []*academy.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan course", err)
		}
		courses = append(courses, course)
	}
	return courses, total, rows.Err()
}

// Batch operations

const batchColumns = "id, course_id, name, starts_on, schedule, capacity, created_at, updated_at"

func scanBatch(row pgx.Row) (*academy.Batch, error) {
	var batch academy.Batch
	err := row.Scan(&batch.ID, &batch.CourseID, &batch.Name, &batch.StartsOn,
		&batch.Schedule, &batch.Capacity, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *Repository) CreateBatch(ctx context.Context, batch *academy.Batch) error {
	query := `
		INSERT INTO batches (
			id, course_id, name, starts_on, schedule, capacity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		batch.ID, batch.CourseID, batch.Name, batch.StartsOn,
		batch.Schedule, batch.Capacity, batch.CreatedAt, batch.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create batch", err)
	}
	return nil
}

func (r *Repository) GetBatch(ctx context.Context, id uuid.UUID) (*academy.Batch, error) {
	query := "SELECT " + batchColumns + " FROM batches WHERE id = $1"
	batch, err := scanBatch(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get batch", err)
	}
	return batch, nil
}

func (r *Repository) ListBatchesByCourse(ctx context.Context, courseID uuid.UUID, page academy.PageRequest) ([]*academy.Batch, int, error) {
	q := sqlgen.NewQuery("batches", strings.Split(batchColumns, ", ")...).
		OrderBy("starts_on ASC").
		Page(page.Limit, page.Offset)
	q.Where("course_id", "=", courseID)

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count batches", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list batches", err)
	}
	defer rows.Close()

	var batches []*academy.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan batch", err)
		}
		batches = append(batches, batch)
	}
	return batches, total, rows.Err()
}

func (r *Repository) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM batches WHERE id = $1", id)
	if err != nil {
		return r.handlePostgresError("delete batch", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

// Quote operations

const quoteColumns = "id, name, email, phone, course_id, message, status, created_at"

func scanQuoteRequest(row pgx.Row) (*academy.QuoteRequest, error) {
	var quote academy.QuoteRequest
	err := row.Scan(&quote.ID, &quote.Name, &quote.Email, &quote.Phone,
		&quote.CourseID, &quote.Message, &quote.Status, &quote.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *Repository) CreateQuoteRequest(ctx context.Context, quote *academy.QuoteRequest) error {
	query := `
		INSERT INTO quote_requests (
			id, name, email, phone, course_id, message, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		quote.ID, quote.Name, quote.Email, quote.Phone,
		quote.CourseID, quote.Message, quote.Status, quote.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create quote request", err)
	}
	return nil
}

func (r *Repository) GetQuoteRequest(ctx context.Context, id uuid.UUID) (*academy.QuoteRequest, error) {
	query := "SELECT " + quoteColumns + " FROM quote_requests WHERE id = $1"
	quote, err := scanQuoteRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get quote request", err)
	}
	return quote, nil
}

func (r *Repository) SetQuoteStatus(ctx context.Context, id uuid.UUID, status academy.QuoteStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE quote_requests SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return r.handlePostgresError("set quote status", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListQuoteRequests(ctx context.Context, filter academy.QuoteFilter) ([]*academy.QuoteRequest, int, error) {
	q := sqlgen.NewQuery("quote_requests", strings.Split(quoteColumns, ", ")...).
		OrderBy("created_at DESC").
		Page(filter.Page.Limit, filter.Page.Offset)
	if filter.Status != nil {
		q.Where("status", "=", string(*filter.Status))
	}
	q.Search(filter.Search, "name", "email")

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count quote requests", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list quote requests", err)
	}
	defer rows.Close()

	var quotes []*academy.QuoteRequest
	for rows.Next() {
		quote, err := scanQuoteRequest(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan quote request", err)
		}
		quotes = append(quotes, quote)
	}
	return quotes, total, rows.Err()
}

// Newsletter operations

const subscriberColumns = "id, email, subscribed, created_at, updated_at"

func scanSubscriber(row pgx.Row) (*academy.NewsletterSubscriber, error) {
	var sub academy.NewsletterSubscriber
	err := row.Scan(&sub.ID, &sub.Email, &sub.Subscribed, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *Repository) UpsertSubscriber(ctx context.Context, email string, now time.Time) (*academy.NewsletterSubscriber, error) {
	query := `
		INSERT INTO newsletter_subscribers (id, email, subscribed, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $3)
		ON CONFLICT (email) DO UPDATE SET subscribed = TRUE, updated_at = $3
		RETURNING ` + subscriberColumns

	sub, err := scanSubscriber(r.db.QueryRow(ctx, query, uuid.New(), email, now))
	if err != nil {
		return nil, r.handlePostgresError("upsert subscriber", err)
	}
	return sub, nil
}

func (r *Repository) UnsubscribeByEmail(ctx context.Context, email string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE newsletter_subscribers SET subscribed = FALSE, updated_at = $2 WHERE email = $1",
		email, now)
	if err != nil {
		return r.handlePostgresError("unsubscribe", err)
	}
	if tag.RowsAffected() == 0 {
		return academy.ErrNotFound
	}
	return nil
}

func (r *Repository) ListSubscribers(ctx context.Context, page academy.PageRequest) ([]*academy.NewsletterSubscriber, int, error) {
	q := sqlgen.NewQuery("newsletter_subscribers", strings.Split(subscriberColumns, ", ")...).
		OrderBy("created_at DESC").
		Page(page.Limit, page.Offset)

	var total int
	countStmt, countArgs := q.Count()
	if err := r.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, r.handlePostgresError("count subscribers", err)
	}

	stmt, args := q.Select()
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, 0, r.handlePostgresError("list subscribers", err)
	}
	defer rows.Close()

	var subs []*academy.NewsletterSubscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, 0, r.handlePostgresError("scan subscriber", err)
		}
		subs = append(subs, sub)
	}
	return subs, total, rows.Err()
}
