package programs

import "context"

type Repository interface {
	ListPrograms(ctx context.Context, filter ListFilter) ([]ChurchProgram, error)
	CountByCategory(ctx context.Context, filter ListFilter) (map[Category]int64, error)
	GetProgram(ctx context.Context, id string) (*ChurchProgram, error)
	CreateProgram(ctx context.Context, program *ChurchProgram) error
	UpdateProgram(ctx context.Context, program *ChurchProgram) error
	DeleteProgram(ctx context.Context, id string) (bool, error)
}
