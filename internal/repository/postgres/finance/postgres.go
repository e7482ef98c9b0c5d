package finance

import (
	"context"
	"errors"
	"time"

	financedomain "parish-app-go/internal/domain/finance"
	"parish-app-go/internal/repository/postgres/pgerr"

	"gorm.io/gorm"
)

const memberNameColumn = "m.first_name || ' ' || m.last_name AS member_name"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func applyTransactionFilter(query *gorm.DB, filter financedomain.TransactionFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("financial_transactions.type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("financial_transactions.expense_category = ?", filter.Category)
	}
	if filter.MemberID != "" {
		query = query.Where("financial_transactions.member_id = ?", filter.MemberID)
	}
	if filter.From != nil {
		query = query.Where("financial_transactions.occurred_at >= ?", *filter.From)
	}
	return query
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, filter financedomain.TransactionFilter) ([]financedomain.TransactionWithMember, int64, error) {
	var total int64
	if err := applyTransactionFilter(r.db.WithContext(ctx).Model(&financedomain.Transaction{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := applyTransactionFilter(r.db.WithContext(ctx).
		Table("financial_transactions").
		Select("financial_transactions.*, "+memberNameColumn).
		Joins("LEFT JOIN members m ON m.id = financial_transactions.member_id"), filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var result []financedomain.TransactionWithMember
	if err := query.
		Order("financial_transactions.occurred_at DESC").
		Order("financial_transactions.created_at DESC").
		Scan(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) TransactionTotals(ctx context.Context, filter financedomain.TransactionFilter) (financedomain.Totals, error) {
	var totals financedomain.Totals
	err := applyTransactionFilter(r.db.WithContext(ctx).Model(&financedomain.Transaction{}), filter).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS offerings, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expenses",
			financedomain.TypeOffering, financedomain.TypeExpense,
		).
		Scan(&totals).Error
	return totals, err
}

func (r *PostgresRepository) RecentTransactions(ctx context.Context, memberID string, limit int) ([]financedomain.Transaction, error) {
	var result []financedomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id string) (*financedomain.Transaction, error) {
	var transaction financedomain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, financedomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, transaction *financedomain.Transaction) error {
	err := r.db.WithContext(ctx).Create(transaction).Error
	if pgerr.IsForeignKeyViolation(err) {
		return financedomain.ErrMemberNotFound
	}
	return err
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&financedomain.Transaction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListDonations(ctx context.Context, filter financedomain.DonationFilter) ([]financedomain.DonationWithMember, int64, error) {
	query := r.db.WithContext(ctx).
		Table("material_donations").
		Joins("JOIN members m ON m.id = material_donations.member_id")
	if filter.Status != "" {
		query = query.Where("material_donations.status = ?", filter.Status)
	}
	if filter.MemberID != "" {
		query = query.Where("material_donations.member_id = ?", filter.MemberID)
	}
	if filter.Query != "" {
		pattern := pgerr.Contains(filter.Query)
		query = query.Where(
			"material_donations.description ILIKE ? OR m.first_name ILIKE ? OR m.last_name ILIKE ?",
			pattern, pattern, pattern,
		)
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

	var result []financedomain.DonationWithMember
	if err := query.
		Select("material_donations.*, " + memberNameColumn).
		Order("material_donations.donated_at DESC").
		Scan(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) RecentDonations(ctx context.Context, memberID string, limit int) ([]financedomain.MaterialDonation, error) {
	var result []financedomain.MaterialDonation
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("donated_at DESC").
		Limit(limit).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetDonation(ctx context.Context, id string) (*financedomain.MaterialDonation, error) {
	var donation financedomain.MaterialDonation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, financedomain.ErrDonationNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (r *PostgresRepository) CreateDonation(ctx context.Context, donation *financedomain.MaterialDonation) error {
	err := r.db.WithContext(ctx).Create(donation).Error
	if pgerr.IsForeignKeyViolation(err) {
		return financedomain.ErrMemberNotFound
	}
	return err
}

func (r *PostgresRepository) UpdateDonation(ctx context.Context, donation *financedomain.MaterialDonation) error {
	result := r.db.WithContext(ctx).
		Model(&financedomain.MaterialDonation{}).
		Where("id = ?", donation.ID).
		Updates(map[string]interface{}{
			"description":     donation.Description,
			"estimated_value": donation.EstimatedValue,
			"donated_at":      donation.DonatedAt,
			"status":          donation.Status,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return financedomain.ErrDonationNotFound
	}
	return nil
}

func (r *PostgresRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("members").Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
