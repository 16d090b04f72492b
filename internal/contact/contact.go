// Package contact handles contact form submissions.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"church-site/internal/logger"
	"church-site/internal/schema"
)

const (
	maxNameLen    = 200
	maxSubjectLen = 200
	maxMessageLen = 5000
)

var (
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid submission")
	// ErrRateLimited is returned when a sender submits too often.
	ErrRateLimited = errors.New("too many submissions, try again later")
)

// Submission is one message sent through the contact form.
type Submission struct {
	ID         string    `json:"id" firestore:"id"`
	Name       string    `json:"name" firestore:"name"`
	Email      string    `json:"email" firestore:"email"`
	Phone      string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Subject    string    `json:"subject,omitempty" firestore:"subject,omitempty"`
	Message    string    `json:"message" firestore:"message"`
	RemoteAddr string    `json:"remote_addr,omitempty" firestore:"remote_addr,omitempty"`
	CreatedAt  time.Time `json:"created_at" firestore:"created_at"`
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+" "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Normalize trims whitespace from every field.
func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

// Validate checks required fields and formats.
func (s *Submission) Validate() error {
	fields := map[string]string{}
	switch {
	case s.Name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(s.Name) > maxNameLen:
		fields["name"] = "is too long"
	}
	if !schema.ValidEmail(s.Email) {
		fields["email"] = "must be a valid email address"
	}
	if s.Phone != "" && !schema.ValidPhone(s.Phone) {
		fields["phone"] = "must be a valid phone number"
	}
	if utf8.RuneCountInString(s.Subject) > maxSubjectLen {
		fields["subject"] = "is too long"
	}
	switch {
	case s.Message == "":
		fields["message"] = "is required"
	case utf8.RuneCountInString(s.Message) > maxMessageLen:
		fields["message"] = fmt.Sprintf("must be at most %d characters", maxMessageLen)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Repository persists submissions.
type Repository interface {
	Save(ctx context.Context, s Submission) error
	// List returns up to limit submissions, newest first.
	List(ctx context.Context, limit int) ([]Submission, error)
}

// Pruner deletes old submissions. Both repositories implement it.
type Pruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Limiter decides whether a sender may submit now.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Service validates, rate limits and stores submissions.
type Service struct {
	repo    Repository
	limiter Limiter
	log     logger.Logger
	now     func() time.Time
}

// NewService creates a Service. A nil limiter disables rate limiting.
func NewService(repo Repository, limiter Limiter, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, limiter: limiter, log: log, now: time.Now}
}

// Submit stores s and returns it with its id and timestamp filled in.
func (svc *Service) Submit(ctx context.Context, s Submission) (Submission, error) {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return s, err
	}

	if svc.limiter != nil && s.RemoteAddr != "" {
		ok, err := svc.limiter.Allow(ctx, s.RemoteAddr)
		if err != nil {
			// Fail open: a broken limiter must not block messages.
			svc.log.Warn("Rate limiter unavailable", logger.Err(err))
		} else if !ok {
			return s, ErrRateLimited
		}
	}

	s.ID = uuid.NewString()
	s.CreatedAt = svc.now().UTC()
	if err := svc.repo.Save(ctx, s); err != nil {
		return s, fmt.Errorf("saving submission: %w", err)
	}
	svc.log.Info("Contact submission stored",
		logger.String("id", s.ID),
		logger.String("subject", s.Subject))
	return s, nil
}
