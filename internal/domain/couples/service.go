package couples

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parish-app-go/internal/domain/listing"

	"github.com/google/uuid"
)

const (
	CouplePageSize  = 15
	ProgramPageSize = 10
)

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) ListCouples(ctx context.Context, filter CoupleFilter, page int) ([]CoupleWithSpouses, listing.PageInfo, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, listing.PageInfo{}, fmt.Errorf("%w: couple status %q", ErrInvalidInput, filter.Status)
	}
	return listing.Fetch(page, CouplePageSize, func(limit, offset int) ([]CoupleWithSpouses, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListCouples(ctx, filter)
	})
}

// Stats counts couples by status plus the weddings since the first of the
// current month.
func (s *Service) Stats(ctx context.Context) (CoupleStats, error) {
	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.CoupleStats(ctx, monthStart)
}

func (s *Service) GetCouple(ctx context.Context, id string) (*CoupleWithSpouses, []MarriageProgram, error) {
	couple, err := s.repo.GetCouple(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	programs, err := s.repo.ListProgramsByCouple(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return couple, programs, nil
}

func (s *Service) CreateCouple(ctx context.Context, input CreateCoupleInput) (*Couple, error) {
	if err := validateSpouses(input.SpouseAID, input.SpouseBID, input.Status); err != nil {
		return nil, err
	}

	couple := Couple{
		ID:          uuid.NewString(),
		SpouseAID:   input.SpouseAID,
		SpouseBID:   input.SpouseBID,
		IsActive:    true,
		Status:      input.Status,
		WeddingDate: input.WeddingDate,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		ok, err := tx.MembersExist(ctx, couple.SpouseAID, couple.SpouseBID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSpouseNotFound
		}
		return tx.CreateCouple(ctx, &couple)
	})
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

// UpdateCouple changes spouses, status or wedding date freely; the lifecycle
// guard only applies to deletion.
func (s *Service) UpdateCouple(ctx context.Context, input UpdateCoupleInput) (*Couple, error) {
	if err := validateSpouses(input.SpouseAID, input.SpouseBID, input.Status); err != nil {
		return nil, err
	}

	var result Couple
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		couple, err := tx.LockCouple(ctx, input.ID)
		if err != nil {
			return err
		}
		ok, err := tx.MembersExist(ctx, input.SpouseAID, input.SpouseBID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSpouseNotFound
		}

		couple.SpouseAID = input.SpouseAID
		couple.SpouseBID = input.SpouseBID
		couple.Status = input.Status
		couple.WeddingDate = input.WeddingDate
		if input.IsActive != nil {
			couple.IsActive = *input.IsActive
		}
		if err := tx.UpdateCouple(ctx, couple); err != nil {
			return err
		}
		result = *couple
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteCouple re-reads the couple and its programs under a row lock and runs
// CanDelete before deleting, all in one transaction.
func (s *Service) DeleteCouple(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		return DeleteGuarded(ctx, tx, id)
	})
}

// DeleteGuarded is the guarded delete step; tx must already be a transaction.
func DeleteGuarded(ctx context.Context, tx Repository, id string) error {
	couple, err := tx.LockCouple(ctx, id)
	if err != nil {
		return err
	}
	programs, err := tx.ListProgramsByCouple(ctx, couple.ID)
	if err != nil {
		return err
	}
	if err := CanDelete(*couple, programs); err != nil {
		return err
	}
	return tx.DeleteCouple(ctx, couple.ID)
}

func (s *Service) ListPrograms(ctx context.Context, filter ProgramFilter, page int) ([]MarriageProgram, listing.PageInfo, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, listing.PageInfo{}, fmt.Errorf("%w: program status %q", ErrInvalidInput, filter.Status)
	}
	filter.Query = strings.TrimSpace(filter.Query)
	return listing.Fetch(page, ProgramPageSize, func(limit, offset int) ([]MarriageProgram, int64, error) {
		filter.Limit, filter.Offset = limit, offset
		return s.repo.ListPrograms(ctx, filter)
	})
}

func (s *Service) GetProgram(ctx context.Context, id string) (*MarriageProgram, error) {
	return s.repo.GetProgram(ctx, id)
}

// CreateProgram takes the same couple row lock as DeleteCouple so a new
// planned program cannot slip in between the guard check and the delete.
func (s *Service) CreateProgram(ctx context.Context, coupleID string, input MarriageProgramInput) (*MarriageProgram, error) {
	if input.Status == "" {
		input.Status = ProgramPlanned
	}
	if err := validateProgram(input); err != nil {
		return nil, err
	}

	program := MarriageProgram{
		ID:          uuid.NewString(),
		CoupleID:    coupleID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Location:    input.Location,
		Status:      input.Status,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockCouple(ctx, coupleID); err != nil {
			return err
		}
		return tx.CreateProgram(ctx, &program)
	})
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (s *Service) UpdateProgram(ctx context.Context, id string, input MarriageProgramInput) (*MarriageProgram, error) {
	if err := validateProgram(input); err != nil {
		return nil, err
	}

	var result MarriageProgram
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		program, err := tx.GetProgram(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.LockCouple(ctx, program.CoupleID); err != nil {
			return err
		}

		program.Title = strings.TrimSpace(input.Title)
		program.Description = input.Description
		program.StartsAt = input.StartsAt
		program.EndsAt = input.EndsAt
		program.Location = input.Location
		program.Status = input.Status
		if err := tx.UpdateProgram(ctx, program); err != nil {
			return err
		}
		result = *program
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) DeleteProgram(ctx context.Context, id string) (string, error) {
	program, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return "", err
	}
	deleted, err := s.repo.DeleteProgram(ctx, id)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", ErrMarriageProgramNotFound
	}
	return program.CoupleID, nil
}

func validateSpouses(a, b string, status CoupleStatus) error {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return fmt.Errorf("%w: both spouses are required", ErrInvalidInput)
	}
	if a == b {
		return ErrSameSpouse
	}
	if !status.Valid() {
		return fmt.Errorf("%w: couple status %q", ErrInvalidInput, status)
	}
	return nil
}

func validateProgram(input MarriageProgramInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if input.EndsAt.Before(input.StartsAt) {
		return fmt.Errorf("%w: end must not precede start", ErrInvalidInput)
	}
	if !input.Status.Valid() {
		return fmt.Errorf("%w: program status %q", ErrInvalidInput, input.Status)
	}
	return nil
}
