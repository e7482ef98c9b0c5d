package couples

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListCouples(ctx context.Context, filter CoupleFilter) ([]CoupleWithSpouses, int64, error)
	CoupleStats(ctx context.Context, monthStart time.Time) (CoupleStats, error)
	GetCouple(ctx context.Context, id string) (*CoupleWithSpouses, error)
	// LockCouple loads the couple row with FOR UPDATE for the rest of the transaction.
	LockCouple(ctx context.Context, id string) (*Couple, error)
	ListCouplesByMember(ctx context.Context, memberID string) ([]Couple, error)
	MembersExist(ctx context.Context, ids ...string) (bool, error)
	CreateCouple(ctx context.Context, couple *Couple) error
	UpdateCouple(ctx context.Context, couple *Couple) error
	DeleteCouple(ctx context.Context, id string) error

	ListPrograms(ctx context.Context, filter ProgramFilter) ([]MarriageProgram, int64, error)
	ListProgramsByCouple(ctx context.Context, coupleID string) ([]MarriageProgram, error)
	GetProgram(ctx context.Context, id string) (*MarriageProgram, error)
	CreateProgram(ctx context.Context, program *MarriageProgram) error
	UpdateProgram(ctx context.Context, program *MarriageProgram) error
	DeleteProgram(ctx context.Context, id string) (bool, error)
}
