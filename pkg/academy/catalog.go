package academy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Course and batch operations

func (s *service) CreateCourse(ctx context.Context, req CreateCourseRequest) (*Course, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	explicitSlug := req.Slug != ""
	slug := req.Slug
	if !explicitSlug {
		slug = Slugify(req.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be derived from title %q", ErrInvalidInput, req.Title)
	}

	exists, err := s.repository.CourseSlugExists(ctx, slug)
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
	course := &Course{
		ID:            uuid.New(),
		Title:         req.Title,
		Slug:          slug,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		FeeCents:      req.FeeCents,
		Active:        req.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.repository.CreateCourse(ctx, course)
	if errors.Is(err, ErrDuplicateSlug) && !explicitSlug {
		course.Slug = SlugWithSuffix(Slugify(req.Title))
		err = s.repository.CreateCourse(ctx, course)
	}
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			return nil, err
		}
		return nil, fmt.Errorf("create course: %w", err)
	}

	return course, nil
}

func (s *service) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	return s.repository.GetCourse(ctx, id)
}

func (s *service) GetCourseBySlug(ctx context.Context, slug string) (*Course, error) {
	return s.repository.GetCourseBySlug(ctx, slug)
}

func (s *service) UpdateCourse(ctx context.Context, id uuid.UUID, update CourseUpdate) (*Course, error) {
	return s.repository.UpdateCourse(ctx, id, update)
}

func (s *service) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteCourse(ctx, id)
}

func (s *service) ListCourses(ctx context.Context, filter CourseFilter) ([]*Course, int, error) {
	return s.repository.ListCourses(ctx, filter)
}

func (s *service) CreateBatch(ctx context.Context, req CreateBatchRequest) (*Batch, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	// Verify the course exists
	if _, err := s.repository.GetCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	batch := &Batch{
		ID:        uuid.New(),
		CourseID:  req.CourseID,
		Name:      req.Name,
		StartsOn:  req.StartsOn,
		Schedule:  req.Schedule,
		Capacity:  req.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	return batch, nil
}

func (s *service) GetBatch(ctx context.Context, id uuid.UUID) (*Batch, error) {
	return s.repository.GetBatch(ctx, id)
}

func (s *service) ListBatchesByCourse(ctx context.Context, courseID uuid.UUID, page PageRequest) ([]*Batch, int, error) {
	return s.repository.ListBatchesByCourse(ctx, courseID, page)
}

func (s *service) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	return s.repository.DeleteBatch(ctx, id)
}
