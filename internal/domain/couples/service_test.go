package couples

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCouplesRepo struct {
	members  map[string]bool
	couples  map[string]*Couple
	programs map[string]*MarriageProgram
	locked   []string
	deleted  []string
	txCount  int
}

func newFakeCouplesRepo() *fakeCouplesRepo {
	return &fakeCouplesRepo{
		members:  map[string]bool{"m-1": true, "m-2": true, "m-3": true},
		couples:  make(map[string]*Couple),
		programs: make(map[string]*MarriageProgram),
	}
}

func (r *fakeCouplesRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.txCount++
	return fn(r)
}

func (r *fakeCouplesRepo) ListCouples(ctx context.Context, filter CoupleFilter) ([]CoupleWithSpouses, int64, error) {
	result := make([]CoupleWithSpouses, 0)
	for _, couple := range r.couples {
		if filter.Status != "" && couple.Status != filter.Status {
			continue
		}
		result = append(result, CoupleWithSpouses{Couple: *couple})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	if filter.Offset >= len(result) {
		return []CoupleWithSpouses{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > len(result) {
		end = len(result)
	}
	return result[filter.Offset:end], total, nil
}

func (r *fakeCouplesRepo) CoupleStats(ctx context.Context, monthStart time.Time) (CoupleStats, error) {
	var stats CoupleStats
	for _, couple := range r.couples {
		switch couple.Status {
		case CoupleMarried:
			stats.Married++
		case CoupleEngaged:
			stats.Engaged++
		}
		if couple.WeddingDate != nil && !couple.WeddingDate.Before(monthStart) {
			stats.MarriedThisMonth++
		}
	}
	return stats, nil
}

func (r *fakeCouplesRepo) GetCouple(ctx context.Context, id string) (*CoupleWithSpouses, error) {
	couple, ok := r.couples[id]
	if !ok {
		return nil, ErrCoupleNotFound
	}
	return &CoupleWithSpouses{Couple: *couple}, nil
}

func (r *fakeCouplesRepo) LockCouple(ctx context.Context, id string) (*Couple, error) {
	couple, ok := r.couples[id]
	if !ok {
		return nil, ErrCoupleNotFound
	}
	r.locked = append(r.locked, id)
	copied := *couple
	return &copied, nil
}

func (r *fakeCouplesRepo) ListCouplesByMember(ctx context.Context, memberID string) ([]Couple, error) {
	result := make([]Couple, 0)
	for _, couple := range r.couples {
		if couple.SpouseAID == memberID || couple.SpouseBID == memberID {
			result = append(result, *couple)
		}
	}
	return result, nil
}

func (r *fakeCouplesRepo) MembersExist(ctx context.Context, ids ...string) (bool, error) {
	for _, id := range ids {
		if !r.members[id] {
			return false, nil
		}
	}
	return true, nil
}

func (r *fakeCouplesRepo) CreateCouple(ctx context.Context, couple *Couple) error {
	for _, existing := range r.couples {
		if existing.SpouseAID == couple.SpouseAID && existing.SpouseBID == couple.SpouseBID {
			return ErrCoupleExists
		}
	}
	r.couples[couple.ID] = couple
	return nil
}

func (r *fakeCouplesRepo) UpdateCouple(ctx context.Context, couple *Couple) error {
	if _, ok := r.couples[couple.ID]; !ok {
		return ErrCoupleNotFound
	}
	copied := *couple
	r.couples[couple.ID] = &copied
	return nil
}

func (r *fakeCouplesRepo) DeleteCouple(ctx context.Context, id string) error {
	delete(r.couples, id)
	for programID, program := range r.programs {
		if program.CoupleID == id {
			delete(r.programs, programID)
		}
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeCouplesRepo) ListPrograms(ctx context.Context, filter ProgramFilter) ([]MarriageProgram, int64, error) {
	result := make([]MarriageProgram, 0)
	for _, program := range r.programs {
		if filter.Status != "" && program.Status != filter.Status {
			continue
		}
		result = append(result, *program)
	}
	return result, int64(len(result)), nil
}

func (r *fakeCouplesRepo) ListProgramsByCouple(ctx context.Context, coupleID string) ([]MarriageProgram, error) {
	result := make([]MarriageProgram, 0)
	for _, program := range r.programs {
		if program.CoupleID == coupleID {
			result = append(result, *program)
		}
	}
	return result, nil
}

func (r *fakeCouplesRepo) GetProgram(ctx context.Context, id string) (*MarriageProgram, error) {
	program, ok := r.programs[id]
	if !ok {
		return nil, ErrMarriageProgramNotFound
	}
	copied := *program
	return &copied, nil
}

func (r *fakeCouplesRepo) CreateProgram(ctx context.Context, program *MarriageProgram) error {
	r.programs[program.ID] = program
	return nil
}

func (r *fakeCouplesRepo) UpdateProgram(ctx context.Context, program *MarriageProgram) error {
	copied := *program
	r.programs[program.ID] = &copied
	return nil
}

func (r *fakeCouplesRepo) DeleteProgram(ctx context.Context, id string) (bool, error) {
	if _, ok := r.programs[id]; !ok {
		return false, nil
	}
	delete(r.programs, id)
	return true, nil
}

func seedCouple(t *testing.T, svc *Service) *Couple {
	t.Helper()
	couple, err := svc.CreateCouple(context.Background(), CreateCoupleInput{
		SpouseAID: "m-1",
		SpouseBID: "m-2",
		Status:    CoupleEngaged,
	})
	require.NoError(t, err)
	return couple
}

func programInput(status ProgramStatus) MarriageProgramInput {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	return MarriageProgramInput{
		Title:    "Préparation au mariage",
		StartsAt: start,
		EndsAt:   start.Add(2 * time.Hour),
		Status:   status,
	}
}

func TestCreateCoupleValidation(t *testing.T) {
	svc := NewService(newFakeCouplesRepo(), time.UTC)
	ctx := context.Background()

	_, err := svc.CreateCouple(ctx, CreateCoupleInput{SpouseAID: "m-1", SpouseBID: "m-1", Status: CoupleMarried})
	assert.ErrorIs(t, err, ErrSameSpouse)

	_, err = svc.CreateCouple(ctx, CreateCoupleInput{SpouseAID: "m-1", SpouseBID: "m-9", Status: CoupleMarried})
	assert.ErrorIs(t, err, ErrSpouseNotFound)

	_, err = svc.CreateCouple(ctx, CreateCoupleInput{SpouseAID: "m-1", SpouseBID: "m-2", Status: "divorced"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	couple, err := svc.CreateCouple(ctx, CreateCoupleInput{SpouseAID: "m-1", SpouseBID: "m-2", Status: CoupleMarried})
	require.NoError(t, err)
	assert.True(t, couple.IsActive)
	assert.NotEmpty(t, couple.ID)
}

func TestDeleteCoupleBlockedByPlannedProgram(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	couple := seedCouple(t, svc)
	_, err := svc.CreateProgram(ctx, couple.ID, programInput(""))
	require.NoError(t, err)

	err = svc.DeleteCouple(ctx, couple.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrActiveProgramsExist))
	assert.Contains(t, repo.couples, couple.ID)
	assert.Empty(t, repo.deleted)
}

func TestDeleteCoupleAllowedWhenProgramsFinished(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	couple := seedCouple(t, svc)
	_, err := svc.CreateProgram(ctx, couple.ID, programInput(ProgramCompleted))
	require.NoError(t, err)
	_, err = svc.CreateProgram(ctx, couple.ID, programInput(ProgramCancelled))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCouple(ctx, couple.ID))
	assert.NotContains(t, repo.couples, couple.ID)
	assert.Equal(t, []string{couple.ID}, repo.deleted)
	assert.Contains(t, repo.locked, couple.ID)
}

func TestDeleteCoupleRechecksAfterProgramStatusChange(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	couple := seedCouple(t, svc)
	program, err := svc.CreateProgram(ctx, couple.ID, programInput(ProgramInProgress))
	require.NoError(t, err)
	require.ErrorIs(t, svc.DeleteCouple(ctx, couple.ID), ErrActiveProgramsExist)

	_, err = svc.UpdateProgram(ctx, program.ID, programInput(ProgramCompleted))
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteCouple(ctx, couple.ID))
}

func TestDeleteCoupleNotFound(t *testing.T) {
	svc := NewService(newFakeCouplesRepo(), time.UTC)
	assert.ErrorIs(t, svc.DeleteCouple(context.Background(), "missing"), ErrCoupleNotFound)
}

func TestUpdateCoupleIsNotGuarded(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	couple := seedCouple(t, svc)
	_, err := svc.CreateProgram(ctx, couple.ID, programInput(ProgramPlanned))
	require.NoError(t, err)

	wedding := time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC)
	inactive := false
	updated, err := svc.UpdateCouple(ctx, UpdateCoupleInput{
		ID:          couple.ID,
		SpouseAID:   "m-1",
		SpouseBID:   "m-3",
		Status:      CoupleMarried,
		WeddingDate: &wedding,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, CoupleMarried, updated.Status)
	assert.Equal(t, "m-3", repo.couples[couple.ID].SpouseBID)
	assert.False(t, repo.couples[couple.ID].IsActive)
}

func TestCreateProgramRequiresCoupleAndDefaultsToPlanned(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	_, err := svc.CreateProgram(ctx, "missing", programInput(""))
	assert.ErrorIs(t, err, ErrCoupleNotFound)

	couple := seedCouple(t, svc)
	program, err := svc.CreateProgram(ctx, couple.ID, programInput(""))
	require.NoError(t, err)
	assert.Equal(t, ProgramPlanned, program.Status)

	bad := programInput(ProgramPlanned)
	bad.EndsAt = bad.StartsAt.Add(-time.Hour)
	_, err = svc.CreateProgram(ctx, couple.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteProgramReturnsCouple(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	ctx := context.Background()

	couple := seedCouple(t, svc)
	program, err := svc.CreateProgram(ctx, couple.ID, programInput(ProgramPlanned))
	require.NoError(t, err)

	coupleID, err := svc.DeleteProgram(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, couple.ID, coupleID)

	_, err = svc.DeleteProgram(ctx, program.ID)
	assert.ErrorIs(t, err, ErrMarriageProgramNotFound)
}

func TestStatsUsesMonthStartInLocation(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	june := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	repo.couples["a"] = &Couple{ID: "a", Status: CoupleMarried, WeddingDate: &june}
	repo.couples["b"] = &Couple{ID: "b", Status: CoupleMarried, WeddingDate: &may}
	repo.couples["c"] = &Couple{ID: "c", Status: CoupleEngaged}

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, CoupleStats{Married: 2, Engaged: 1, MarriedThisMonth: 1}, stats)
}

func TestListCouplesFallsBackToLastPage(t *testing.T) {
	repo := newFakeCouplesRepo()
	svc := NewService(repo, time.UTC)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("c-%02d", i)
		repo.couples[id] = &Couple{ID: id, Status: CoupleMarried}
	}
	repo.couples["e"] = &Couple{ID: "e", Status: CoupleEngaged}

	items, page, err := svc.ListCouples(context.Background(), CoupleFilter{Status: CoupleMarried}, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, int64(20), page.Total)
	assert.Len(t, items, 5)

	_, _, err = svc.ListCouples(context.Background(), CoupleFilter{Status: "divorced"}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
