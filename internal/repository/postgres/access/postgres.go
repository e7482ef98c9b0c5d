package access

import (
	"context"

	accessdomain "parish-app-go/internal/domain/access"
	"parish-app-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(accessdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) LockEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "access_request:"+email).
		Error
}

func (r *PostgresRepository) PendingExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accessdomain.Request{}).
		Where("email = ? AND NOT processed", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateRequest relies on the partial unique index over pending emails as the
// last line when two writers bypass the advisory lock.
func (r *PostgresRepository) CreateRequest(ctx context.Context, request *accessdomain.Request) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if pgerr.IsUniqueViolation(err) {
		return accessdomain.ErrPendingRequestExists
	}
	return err
}

func (r *PostgresRepository) ListRequests(ctx context.Context, filter accessdomain.ListFilter) ([]accessdomain.Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&accessdomain.Request{})
	if filter.Processed != nil {
		query = query.Where("processed = ?", *filter.Processed)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("requested_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var result []accessdomain.Request
	if err := query.Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) MarkProcessed(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&accessdomain.Request{}).
		Where("id = ?", id).
		Update("processed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
