package members

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"parish-app-go/internal/domain/couples"
	"parish-app-go/internal/domain/listing"

	"github.com/google/uuid"
)

const PageSize = 20

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidPhone reports whether value is an international phone number of 9 to 15
// digits with an optional leading plus.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type MemberPage struct {
	Items  []Member
	Page   listing.PageInfo
	Counts BaptismalCounts
}

func (s *Service) List(ctx context.Context, filter ListFilter, page int) (MemberPage, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.BaptismalStatus != "" && !filter.BaptismalStatus.Valid() {
		return MemberPage{}, fmt.Errorf("%w: baptismal status %q", ErrInvalidInput, filter.BaptismalStatus)
	}

	items, info, err := listing.Fetch(page, PageSize, func(limit, offset int) ([]Member, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListMembers(ctx, filter)
	})
	if err != nil {
		return MemberPage{}, err
	}
	counts, err := s.repo.BaptismalCounts(ctx)
	if err != nil {
		return MemberPage{}, err
	}
	return MemberPage{Items: items, Page: info, Counts: counts}, nil
}

func (s *Service) Export(ctx context.Context, filter ListFilter) ([]Member, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.BaptismalStatus != "" && !filter.BaptismalStatus.Valid() {
		return nil, fmt.Errorf("%w: baptismal status %q", ErrInvalidInput, filter.BaptismalStatus)
	}
	return s.repo.ExportMembers(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	member, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.ListRolesOfMember(ctx, id)
	if err != nil {
		return nil, err
	}
	groups, err := s.repo.ListGroupsOfMember(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Member: *member, Roles: roles, Groups: groups}, nil
}

func (s *Service) Create(ctx context.Context, input MemberInput) (*Member, error) {
	input = normalizeInput(input)
	if input.BaptismalStatus == "" {
		input.BaptismalStatus = NotBaptized
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	member := Member{ID: uuid.NewString(), IsActive: true}
	applyInput(&member, input)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.EmailTaken(ctx, member.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		return tx.CreateMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) Update(ctx context.Context, id string, input MemberInput) (*Member, error) {
	input = normalizeInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, id)
		if err != nil {
			return err
		}
		taken, err := tx.EmailTaken(ctx, input.Email, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		applyInput(member, input)
		if err := tx.UpdateMember(ctx, member); err != nil {
			return err
		}
		result = *member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a member together with its couples. Every couple goes
// through the couple deletion guard first, so a member whose couple still has
// planned or in-progress marriage programs cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockMember(ctx, id); err != nil {
			return err
		}

		coupleRepo := tx.Couples()
		owned, err := coupleRepo.ListCouplesByMember(ctx, id)
		if err != nil {
			return err
		}
		for _, couple := range owned {
			if err := couples.DeleteGuarded(ctx, coupleRepo, couple.ID); err != nil {
				return err
			}
		}
		return tx.DeleteMember(ctx, id)
	})
}

func (s *Service) ListRoles(ctx context.Context) ([]RoleWithCount, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) GetRole(ctx context.Context, id string) (*Role, []Member, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	holders, err := s.repo.ListRoleMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return role, holders, nil
}

func (s *Service) AssignRole(ctx context.Context, memberID, roleID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, memberID); err != nil {
			return err
		}
		if _, err := tx.GetRole(ctx, roleID); err != nil {
			return err
		}
		return tx.AssignRole(ctx, memberID, roleID)
	})
}

func (s *Service) RevokeRole(ctx context.Context, memberID, roleID string) error {
	removed, err := s.repo.RevokeRole(ctx, memberID, roleID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrRoleNotFound
	}
	return nil
}

func (s *Service) ListGroups(ctx context.Context, query string) ([]GroupWithCount, error) {
	return s.repo.ListGroups(ctx, strings.TrimSpace(query))
}

func (s *Service) GetGroup(ctx context.Context, id string) (*Group, []Member, error) {
	group, err := s.repo.GetGroup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	groupMembers, err := s.repo.ListGroupMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return group, groupMembers, nil
}

func (s *Service) CreateGroup(ctx context.Context, name string, description *string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidInput)
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: group name must be at most 100 characters", ErrInvalidInput)
	}
	group := Group{ID: uuid.NewString(), Name: name, Description: description, IsActive: true}
	if err := s.repo.CreateGroup(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *Service) AddToGroup(ctx context.Context, memberID, groupID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, memberID); err != nil {
			return err
		}
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return err
		}
		return tx.AddToGroup(ctx, memberID, groupID)
	})
}

func (s *Service) RemoveFromGroup(ctx context.Context, memberID, groupID string) error {
	removed, err := s.repo.RemoveFromGroup(ctx, memberID, groupID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrGroupNotFound
	}
	return nil
}

func normalizeInput(input MemberInput) MemberInput {
	input.LastName = strings.TrimSpace(input.LastName)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.Address = strings.TrimSpace(input.Address)
	input.Phone = strings.ReplaceAll(strings.TrimSpace(input.Phone), " ", "")
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.PhotoURL != nil && strings.TrimSpace(*input.PhotoURL) == "" {
		input.PhotoURL = nil
	}
	return input
}

func validateInput(input MemberInput) error {
	switch {
	case input.LastName == "":
		return fmt.Errorf("%w: last name is required", ErrInvalidInput)
	case input.FirstName == "":
		return fmt.Errorf("%w: first name is required", ErrInvalidInput)
	case input.BirthDate.IsZero():
		return fmt.Errorf("%w: birth date is required", ErrInvalidInput)
	case input.Address == "":
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	case !ValidPhone(input.Phone):
		return fmt.Errorf("%w: phone must contain 9 to 15 digits", ErrInvalidInput)
	case !strings.Contains(input.Email, "@"):
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	case input.Sex != nil && !input.Sex.Valid():
		return fmt.Errorf("%w: sex %q", ErrInvalidInput, *input.Sex)
	case !input.BaptismalStatus.Valid():
		return fmt.Errorf("%w: baptismal status %q", ErrInvalidInput, input.BaptismalStatus)
	case input.MembershipDate.IsZero():
		return fmt.Errorf("%w: membership date is required", ErrInvalidInput)
	}
	return nil
}

func applyInput(member *Member, input MemberInput) {
	member.LastName = input.LastName
	member.FirstName = input.FirstName
	member.BirthDate = input.BirthDate
	member.Address = input.Address
	member.Phone = input.Phone
	member.Email = input.Email
	member.Sex = input.Sex
	member.BaptismalStatus = input.BaptismalStatus
	member.MembershipDate = input.MembershipDate
	member.PhotoURL = input.PhotoURL
	if input.IsActive != nil {
		member.IsActive = *input.IsActive
	}
}
