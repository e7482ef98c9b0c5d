package couples

import (
	"context"
	"errors"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	"parish-app-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(couplesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

type coupleRow struct {
	couplesdomain.Couple
	SpouseAFirstName string `gorm:"column:spouse_a_first_name"`
	SpouseALastName  string `gorm:"column:spouse_a_last_name"`
	SpouseBFirstName string `gorm:"column:spouse_b_first_name"`
	SpouseBLastName  string `gorm:"column:spouse_b_last_name"`
}

func (row coupleRow) toDomain() couplesdomain.CoupleWithSpouses {
	return couplesdomain.CoupleWithSpouses{
		Couple:  row.Couple,
		SpouseA: couplesdomain.Spouse{ID: row.SpouseAID, FirstName: row.SpouseAFirstName, LastName: row.SpouseALastName},
		SpouseB: couplesdomain.Spouse{ID: row.SpouseBID, FirstName: row.SpouseBFirstName, LastName: row.SpouseBLastName},
	}
}

func (r *PostgresRepository) couplesWithSpouses(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("couples").
		Select("couples.*, a.first_name AS spouse_a_first_name, a.last_name AS spouse_a_last_name, b.first_name AS spouse_b_first_name, b.last_name AS spouse_b_last_name").
		Joins("JOIN members a ON a.id = couples.spouse_a_id").
		Joins("JOIN members b ON b.id = couples.spouse_b_id")
}

func (r *PostgresRepository) ListCouples(ctx context.Context, filter couplesdomain.CoupleFilter) ([]couplesdomain.CoupleWithSpouses, int64, error) {
	query := r.db.WithContext(ctx).Model(&couplesdomain.Couple{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.couplesWithSpouses(ctx)
	if filter.Status != "" {
		listQuery = listQuery.Where("couples.status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery = listQuery.Offset(filter.Offset)
	}

	var rows []coupleRow
	if err := listQuery.
		Order("couples.wedding_date DESC NULLS LAST").
		Order("couples.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]couplesdomain.CoupleWithSpouses, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, total, nil
}

func (r *PostgresRepository) CoupleStats(ctx context.Context, monthStart time.Time) (couplesdomain.CoupleStats, error) {
	var row struct {
		Married          int64 `gorm:"column:married"`
		Engaged          int64 `gorm:"column:engaged"`
		MarriedThisMonth int64 `gorm:"column:married_this_month"`
	}
	err := r.db.WithContext(ctx).Raw(`SELECT
		COUNT(*) FILTER (WHERE status = ?) AS married,
		COUNT(*) FILTER (WHERE status = ?) AS engaged,
		COUNT(*) FILTER (WHERE wedding_date >= ?) AS married_this_month
		FROM couples`,
		couplesdomain.CoupleMarried, couplesdomain.CoupleEngaged, monthStart.Format("2006-01-02"),
	).Scan(&row).Error
	if err != nil {
		return couplesdomain.CoupleStats{}, err
	}
	return couplesdomain.CoupleStats{Married: row.Married, Engaged: row.Engaged, MarriedThisMonth: row.MarriedThisMonth}, nil
}

func (r *PostgresRepository) GetCouple(ctx context.Context, id string) (*couplesdomain.CoupleWithSpouses, error) {
	var rows []coupleRow
	if err := r.couplesWithSpouses(ctx).Where("couples.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, couplesdomain.ErrCoupleNotFound
	}
	couple := rows[0].toDomain()
	return &couple, nil
}

func (r *PostgresRepository) LockCouple(ctx context.Context, id string) (*couplesdomain.Couple, error) {
	var couple couplesdomain.Couple
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&couple).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, couplesdomain.ErrCoupleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

func (r *PostgresRepository) ListCouplesByMember(ctx context.Context, memberID string) ([]couplesdomain.Couple, error) {
	var result []couplesdomain.Couple
	if err := r.db.WithContext(ctx).
		Where("spouse_a_id = ? OR spouse_b_id = ?", memberID, memberID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) MembersExist(ctx context.Context, ids ...string) (bool, error) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	if err := r.db.WithContext(ctx).Table("members").Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(unique)), nil
}

func (r *PostgresRepository) CreateCouple(ctx context.Context, couple *couplesdomain.Couple) error {
	err := r.db.WithContext(ctx).Create(couple).Error
	if pgerr.IsUniqueViolation(err) {
		return couplesdomain.ErrCoupleExists
	}
	return err
}

func (r *PostgresRepository) UpdateCouple(ctx context.Context, couple *couplesdomain.Couple) error {
	err := r.db.WithContext(ctx).
		Model(&couplesdomain.Couple{}).
		Where("id = ?", couple.ID).
		Updates(map[string]interface{}{
			"spouse_a_id":  couple.SpouseAID,
			"spouse_b_id":  couple.SpouseBID,
			"is_active":    couple.IsActive,
			"status":       couple.Status,
			"wedding_date": couple.WeddingDate,
			"updated_at":   time.Now().UTC(),
		}).Error
	if pgerr.IsUniqueViolation(err) {
		return couplesdomain.ErrCoupleExists
	}
	return err
}

// DeleteCouple removes the couple; its marriage programs go with it through
// the ON DELETE CASCADE foreign key.
func (r *PostgresRepository) DeleteCouple(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&couplesdomain.Couple{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return couplesdomain.ErrCoupleNotFound
	}
	return nil
}

func (r *PostgresRepository) ListPrograms(ctx context.Context, filter couplesdomain.ProgramFilter) ([]couplesdomain.MarriageProgram, int64, error) {
	query := r.db.WithContext(ctx).Model(&couplesdomain.MarriageProgram{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Query != "" {
		pattern := pgerr.Contains(filter.Query)
		query = query.Where("title ILIKE ? OR description ILIKE ? OR location ILIKE ?", pattern, pattern, pattern)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var result []couplesdomain.MarriageProgram
	if err := query.Order("starts_at DESC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) ListProgramsByCouple(ctx context.Context, coupleID string) ([]couplesdomain.MarriageProgram, error) {
	var result []couplesdomain.MarriageProgram
	if err := r.db.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("starts_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetProgram(ctx context.Context, id string) (*couplesdomain.MarriageProgram, error) {
	var program couplesdomain.MarriageProgram
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, couplesdomain.ErrMarriageProgramNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *PostgresRepository) CreateProgram(ctx context.Context, program *couplesdomain.MarriageProgram) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *PostgresRepository) UpdateProgram(ctx context.Context, program *couplesdomain.MarriageProgram) error {
	return r.db.WithContext(ctx).
		Model(&couplesdomain.MarriageProgram{}).
		Where("id = ?", program.ID).
		Updates(map[string]interface{}{
			"title":       program.Title,
			"description": program.Description,
			"starts_at":   program.StartsAt,
			"ends_at":     program.EndsAt,
			"location":    program.Location,
			"status":      program.Status,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) DeleteProgram(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&couplesdomain.MarriageProgram{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
