// Package memory provides an in-memory academy.Repository for development
// and tests. Filtering, search and pagination mirror the postgres
// repository's behavior, including the clamping rules.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/academy/pkg/academy"
	"github.com/campuskit/academy/pkg/academy/sqlgen"
)

// Repository implements academy.Repository with in-memory maps
type Repository struct {
	mu          sync.RWMutex
	gallery     map[uuid.UUID]academy.GalleryImage
	blogs       map[uuid.UUID]academy.BlogPost
	users       map[uuid.UUID]academy.UserProfile
	courses     map[uuid.UUID]academy.Course
	batches     map[uuid.UUID]academy.Batch
	quotes      map[uuid.UUID]academy.QuoteRequest
	subscribers map[uuid.UUID]academy.NewsletterSubscriber
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		gallery:     make(map[uuid.UUID]academy.GalleryImage),
		blogs:       make(map[uuid.UUID]academy.BlogPost),
		users:       make(map[uuid.UUID]academy.UserProfile),
		courses:     make(map[uuid.UUID]academy.Course),
		batches:     make(map[uuid.UUID]academy.Batch),
		quotes:      make(map[uuid.UUID]academy.QuoteRequest),
		subscribers: make(map[uuid.UUID]academy.NewsletterSubscriber),
	}
}

func matches(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func page[T any](items []T, p academy.PageRequest) []T {
	limit, offset := sqlgen.ClampPage(p.Limit, p.Offset)
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Gallery operations

func (r *Repository) CreateGalleryImage(ctx context.Context, img *academy.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gallery[img.ID] = *img
	return nil
}

func (r *Repository) GetGalleryImage(ctx context.Context, id uuid.UUID) (*academy.GalleryImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img, ok := r.gallery[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &img, nil
}

func (r *Repository) UpdateGalleryImage(ctx context.Context, id uuid.UUID, update academy.GalleryImageUpdate) (*academy.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.gallery[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	if update.Empty() {
		return &img, nil
	}
	if update.Title != nil {
		img.Title = *update.Title
	}
	if update.AltText != nil {
		img.AltText = *update.AltText
	}
	if update.SortOrder != nil {
		img.SortOrder = *update.SortOrder
	}
	if update.Active != nil {
		img.Active = *update.Active
	}
	img.UpdatedAt = time.Now().UTC()
	r.gallery[id] = img
	return &img, nil
}

func (r *Repository) SetGalleryAsset(ctx context.Context, id uuid.UUID, asset academy.MediaAsset, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.gallery[id]
	if !ok {
		return academy.ErrNotFound
	}
	img.Asset = asset
	img.UpdatedAt = updatedAt
	r.gallery[id] = img
	return nil
}

func (r *Repository) DeleteGalleryImage(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.gallery[id]; !ok {
		return academy.ErrNotFound
	}
	delete(r.gallery, id)
	return nil
}

func (r *Repository) ListGalleryImages(ctx context.Context, filter academy.GalleryFilter) ([]*academy.GalleryImage, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.GalleryImage
	for _, img := range r.gallery {
		if filter.Active != nil && img.Active != *filter.Active {
			continue
		}
		if !matches(filter.Search, img.Title, img.AltText) {
			continue
		}
		all = append(all, img)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].SortOrder != all[j].SortOrder {
			return all[i].SortOrder < all[j].SortOrder
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.GalleryImage, 0, len(all))
	for _, img := range page(all, filter.Page) {
		img := img
		out = append(out, &img)
	}
	return out, total, nil
}

// Blog operations

func (r *Repository) CreateBlogPost(ctx context.Context, post *academy.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.blogs {
		if existing.Slug == post.Slug {
			return academy.ErrDuplicateSlug
		}
	}
	r.blogs[post.ID] = *post
	return nil
}

func (r *Repository) GetBlogPost(ctx context.Context, id uuid.UUID) (*academy.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.blogs[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &post, nil
}

func (r *Repository) GetBlogPostBySlug(ctx context.Context, slug string) (*academy.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, post := range r.blogs {
		if post.Slug == slug {
			post := post
			return &post, nil
		}
	}
	return nil, academy.ErrNotFound
}

func (r *Repository) BlogSlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, post := range r.blogs {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) UpdateBlogPost(ctx context.Context, id uuid.UUID, update academy.BlogPostUpdate) (*academy.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.blogs[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	if update.Empty() {
		return &post, nil
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Excerpt != nil {
		post.Excerpt = *update.Excerpt
	}
	if update.Body != nil {
		post.Body = *update.Body
	}
	if update.Tags != nil {
		post.Tags = *update.Tags
	}
	if update.Published != nil {
		post.Published = *update.Published
		if *update.Published {
			now := time.Now().UTC()
			post.PublishedAt = &now
		}
	}
	post.UpdatedAt = time.Now().UTC()
	r.blogs[id] = post
	return &post, nil
}

func (r *Repository) SetBlogAsset(ctx context.Context, id uuid.UUID, slot academy.AssetSlot, asset *academy.MediaAsset, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.blogs[id]
	if !ok {
		return academy.ErrNotFound
	}
	switch slot {
	case academy.AssetSlotThumbnail:
		post.Thumbnail = asset
	case academy.AssetSlotBanner:
		post.Banner = asset
	}
	post.UpdatedAt = updatedAt
	r.blogs[id] = post
	return nil
}

func (r *Repository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return academy.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

func (r *Repository) ListBlogPosts(ctx context.Context, filter academy.BlogFilter) ([]*academy.BlogPost, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.BlogPost
	for _, post := range r.blogs {
		if filter.Author != nil && post.Author != *filter.Author {
			continue
		}
		if filter.Published != nil && post.Published != *filter.Published {
			continue
		}
		if filter.Tag != nil && !containsTag(post.Tags, *filter.Tag) {
			continue
		}
		if !matches(filter.Search, post.Title, post.Excerpt) {
			continue
		}
		all = append(all, post)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.BlogPost, 0, len(all))
	for _, post := range page(all, filter.Page) {
		post := post
		out = append(out, &post)
	}
	return out, total, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// User operations

func (r *Repository) CreateUserProfile(ctx context.Context, user *academy.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return academy.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *Repository) GetUserProfile(ctx context.Context, id uuid.UUID) (*academy.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &user, nil
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uuid.UUID, update academy.UserProfileUpdate) (*academy.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	if update.Empty() {
		return &user, nil
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return &user, nil
}

func (r *Repository) SetUserPhoto(ctx context.Context, id uuid.UUID, photo *academy.MediaAsset, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return academy.ErrNotFound
	}
	user.Photo = photo
	user.UpdatedAt = updatedAt
	r.users[id] = user
	return nil
}

func (r *Repository) DeleteUserProfile(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return academy.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *Repository) ListUserProfiles(ctx context.Context, filter academy.UserFilter) ([]*academy.UserProfile, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.UserProfile
	for _, user := range r.users {
		if !matches(filter.Search, user.Name, user.Email) {
			continue
		}
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.UserProfile, 0, len(all))
	for _, user := range page(all, filter.Page) {
		user := user
		out = append(out, &user)
	}
	return out, total, nil
}

// Course operations

func (r *Repository) CreateCourse(ctx context.Context, course *academy.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.courses {
		if existing.Slug == course.Slug {
			return academy.ErrDuplicateSlug
		}
	}
	r.courses[course.ID] = *course
	return nil
}

func (r *Repository) GetCourse(ctx context.Context, id uuid.UUID) (*academy.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &course, nil
}

func (r *Repository) GetCourseBySlug(ctx context.Context, slug string) (*academy.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, course := range r.courses {
		if course.Slug == slug {
			course := course
			return &course, nil
		}
	}
	return nil, academy.ErrNotFound
}

func (r *Repository) CourseSlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, course := range r.courses {
		if course.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) UpdateCourse(ctx context.Context, id uuid.UUID, update academy.CourseUpdate) (*academy.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	if update.Empty() {
		return &course, nil
	}
	if update.Title != nil {
		course.Title = *update.Title
	}
	if update.Description != nil {
		course.Description = *update.Description
	}
	if update.DurationWeeks != nil {
		course.DurationWeeks = *update.DurationWeeks
	}
	if update.FeeCents != nil {
		course.FeeCents = *update.FeeCents
	}
	if update.Active != nil {
		course.Active = *update.Active
	}
	course.UpdatedAt = time.Now().UTC()
	r.courses[id] = course
	return &course, nil
}

func (r *Repository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return academy.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *Repository) ListCourses(ctx context.Context, filter academy.CourseFilter) ([]*academy.Course, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.Course
	for _, course := range r.courses {
		if filter.Active != nil && course.Active != *filter.Active {
			continue
		}
		if !matches(filter.Search, course.Title, course.Description) {
			continue
		}
		all = append(all, course)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.Course, 0, len(all))
	for _, course := range page(all, filter.Page) {
		course := course
		out = append(out, &course)
	}
	return out, total, nil
}

// Batch operations

func (r *Repository) CreateBatch(ctx context.Context, batch *academy.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batch.ID] = *batch
	return nil
}

func (r *Repository) GetBatch(ctx context.Context, id uuid.UUID) (*academy.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &batch, nil
}

func (r *Repository) ListBatchesByCourse(ctx context.Context, courseID uuid.UUID, p academy.PageRequest) ([]*academy.Batch, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.Batch
	for _, batch := range r.batches {
		if batch.CourseID == courseID {
			all = append(all, batch)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].StartsOn.Before(all[j].StartsOn)
	})

	total := len(all)
	out := make([]*academy.Batch, 0, len(all))
	for _, batch := range page(all, p) {
		batch := batch
		out = append(out, &batch)
	}
	return out, total, nil
}

func (r *Repository) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[id]; !ok {
		return academy.ErrNotFound
	}
	delete(r.batches, id)
	return nil
}

// Quote operations

func (r *Repository) CreateQuoteRequest(ctx context.Context, quote *academy.QuoteRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[quote.ID] = *quote
	return nil
}

func (r *Repository) GetQuoteRequest(ctx context.Context, id uuid.UUID) (*academy.QuoteRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quote, ok := r.quotes[id]
	if !ok {
		return nil, academy.ErrNotFound
	}
	return &quote, nil
}

func (r *Repository) SetQuoteStatus(ctx context.Context, id uuid.UUID, status academy.QuoteStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[id]
	if !ok {
		return academy.ErrNotFound
	}
	quote.Status = status
	r.quotes[id] = quote
	return nil
}

func (r *Repository) ListQuoteRequests(ctx context.Context, filter academy.QuoteFilter) ([]*academy.QuoteRequest, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []academy.QuoteRequest
	for _, quote := range r.quotes {
		if filter.Status != nil && quote.Status != *filter.Status {
			continue
		}
		if !matches(filter.Search, quote.Name, quote.Email) {
			continue
		}
		all = append(all, quote)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.QuoteRequest, 0, len(all))
	for _, quote := range page(all, filter.Page) {
		quote := quote
		out = append(out, &quote)
	}
	return out, total, nil
}

// Newsletter operations

func (r *Repository) UpsertSubscriber(ctx context.Context, email string, now time.Time) (*academy.NewsletterSubscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sub := range r.subscribers {
		if sub.Email == email {
			sub.Subscribed = true
			sub.UpdatedAt = now
			r.subscribers[id] = sub
			return &sub, nil
		}
	}
	sub := academy.NewsletterSubscriber{
		ID:         uuid.New(),
		Email:      email,
		Subscribed: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.subscribers[sub.ID] = sub
	return &sub, nil
}

func (r *Repository) UnsubscribeByEmail(ctx context.Context, email string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, sub := range r.subscribers {
		if sub.Email == email {
			sub.Subscribed = false
			sub.UpdatedAt = now
			r.subscribers[id] = sub
			return nil
		}
	}
	return academy.ErrNotFound
}

func (r *Repository) ListSubscribers(ctx context.Context, p academy.PageRequest) ([]*academy.NewsletterSubscriber, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]academy.NewsletterSubscriber, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		all = append(all, sub)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	out := make([]*academy.NewsletterSubscriber, 0, len(all))
	for _, sub := range page(all, p) {
		sub := sub
		out = append(out, &sub)
	}
	return out, total, nil
}
