package academy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Quote and newsletter operations

func (s *service) SubmitQuote(ctx context.Context, req SubmitQuoteRequest) (*QuoteRequest, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if req.CourseID != nil {
		if _, err := s.repository.GetCourse(ctx, *req.CourseID); err != nil {
			return nil, err
		}
	}

	quote := &QuoteRequest{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		CourseID:  req.CourseID,
		Message:   req.Message,
		Status:    QuoteStatusNew,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repository.CreateQuoteRequest(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote request: %w", err)
	}

	return quote, nil
}

func (s *service) GetQuoteRequest(ctx context.Context, id uuid.UUID) (*QuoteRequest, error) {
	return s.repository.GetQuoteRequest(ctx, id)
}

func (s *service) SetQuoteStatus(ctx context.Context, id uuid.UUID, status QuoteStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid quote status %q", ErrInvalidInput, status)
	}
	return s.repository.SetQuoteStatus(ctx, id, status)
}

func (s *service) ListQuoteRequests(ctx context.Context, filter QuoteFilter) ([]*QuoteRequest, int, error) {
	return s.repository.ListQuoteRequests(ctx, filter)
}

func (s *service) Subscribe(ctx context.Context, email string) (*NewsletterSubscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	return s.repository.UpsertSubscriber(ctx, email, time.Now().UTC())
}

func (s *service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return s.repository.UnsubscribeByEmail(ctx, email, time.Now().UTC())
}

func (s *service) ListSubscribers(ctx context.Context, page PageRequest) ([]*NewsletterSubscriber, int, error) {
	return s.repository.ListSubscribers(ctx, page)
}
