package programs

import (
	"context"
	"errors"
	"time"

	programsdomain "parish-app-go/internal/domain/programs"
	"parish-app-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) filtered(ctx context.Context, filter programsdomain.ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&programsdomain.ChurchProgram{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Query != "" {
		pattern := pgerr.Contains(filter.Query)
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}
	return query
}

func (r *PostgresRepository) ListPrograms(ctx context.Context, filter programsdomain.ListFilter) ([]programsdomain.ChurchProgram, error) {
	var result []programsdomain.ChurchProgram
	if err := r.filtered(ctx, filter).
		Order("start_date ASC NULLS LAST").
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context, filter programsdomain.ListFilter) (map[programsdomain.Category]int64, error) {
	var rows []struct {
		Category programsdomain.Category
		Count    int64
	}
	if err := r.filtered(ctx, filter).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[programsdomain.Category]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}

func (r *PostgresRepository) GetProgram(ctx context.Context, id string) (*programsdomain.ChurchProgram, error) {
	var program programsdomain.ChurchProgram
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, programsdomain.ErrProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *PostgresRepository) CreateProgram(ctx context.Context, program *programsdomain.ChurchProgram) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *PostgresRepository) UpdateProgram(ctx context.Context, program *programsdomain.ChurchProgram) error {
	result := r.db.WithContext(ctx).
		Model(&programsdomain.ChurchProgram{}).
		Where("id = ?", program.ID).
		Updates(map[string]interface{}{
			"title":       program.Title,
			"description": program.Description,
			"start_date":  program.StartDate,
			"start_time":  program.StartTime,
			"end_date":    program.EndDate,
			"end_time":    program.EndTime,
			"location":    program.Location,
			"category":    program.Category,
			"recurrence":  program.Recurrence,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return programsdomain.ErrProgramNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteProgram(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&programsdomain.ChurchProgram{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
