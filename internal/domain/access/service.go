package access

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parish-app-go/internal/domain/listing"

	"github.com/google/uuid"
)

const PageSize = 20

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Submit records a new access request unless one is already pending for the
// same email. The check and the insert share one transaction.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Request, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DesiredRole = strings.TrimSpace(input.DesiredRole)
	if err := validateSubmit(input); err != nil {
		return nil, err
	}

	request := Request{
		ID:          uuid.NewString(),
		FullName:    input.FullName,
		Email:       input.Email,
		DesiredRole: input.DesiredRole,
		Message:     input.Message,
		RequestedAt: s.now(),
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockEmail(ctx, request.Email); err != nil {
			return err
		}
		pending, err := tx.PendingExists(ctx, request.Email)
		if err != nil {
			return err
		}
		if pending {
			return ErrPendingRequestExists
		}
		return tx.CreateRequest(ctx, &request)
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page int) ([]Request, listing.PageInfo, error) {
	return listing.Fetch(page, PageSize, func(limit, offset int) ([]Request, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListRequests(ctx, filter)
	})
}

func (s *Service) MarkProcessed(ctx context.Context, id string) error {
	updated, err := s.repo.MarkProcessed(ctx, id)
	if err != nil {
		return err
	}
	if !updated {
		return ErrRequestNotFound
	}
	return nil
}

func validateSubmit(input SubmitInput) error {
	if input.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if len(input.FullName) > 150 {
		return fmt.Errorf("%w: full name must be at most 150 characters", ErrInvalidInput)
	}
	if !strings.Contains(input.Email, "@") {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if input.DesiredRole == "" {
		return fmt.Errorf("%w: desired role is required", ErrInvalidInput)
	}
	if len(input.DesiredRole) > 100 {
		return fmt.Errorf("%w: desired role must be at most 100 characters", ErrInvalidInput)
	}
	return nil
}
