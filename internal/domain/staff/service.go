package staff

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RecordLogin upserts the account of an authenticated user and stamps its last
// login. A disabled account is returned together with ErrAccountInactive.
func (s *Service) RecordLogin(ctx context.Context, userID, email, name string) (*Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	now := s.now()
	account := Account{UserID: userID, IsActive: true, LastLoginAt: &now}
	if email = strings.TrimSpace(email); email != "" {
		account.Email = &email
	}
	if name = strings.TrimSpace(name); name != "" {
		account.Name = &name
	}
	if err := s.repo.UpsertAccount(ctx, &account); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !stored.IsActive {
		return stored, ErrAccountInactive
	}
	return stored, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Account, error) {
	return s.repo.GetAccount(ctx, userID)
}

// LinkMember attaches the account to a member record, or detaches it when
// memberID is nil.
func (s *Service) LinkMember(ctx context.Context, userID string, memberID *string) (*Account, error) {
	if memberID != nil {
		ok, err := s.repo.MemberExists(ctx, *memberID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrMemberNotFound
		}
	}
	updated, err := s.repo.LinkMember(ctx, userID, memberID)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAccountNotFound
	}
	return s.repo.GetAccount(ctx, userID)
}
