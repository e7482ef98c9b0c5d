package analytics

import (
	"context"
	"time"

	analyticsdomain "parish-app-go/internal/domain/analytics"
	couplesdomain "parish-app-go/internal/domain/couples"
	financedomain "parish-app-go/internal/domain/finance"
	membersdomain "parish-app-go/internal/domain/members"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) MemberCounts(ctx context.Context, joinedSince time.Time) (analyticsdomain.MemberCounts, error) {
	query := "SELECT COUNT(*) AS total, " +
		"COUNT(*) FILTER (WHERE baptismal_status = ?) AS baptized_here, " +
		"COUNT(*) FILTER (WHERE membership_date >= ?) AS joined_since " +
		"FROM members"

	var row analyticsdomain.MemberCounts
	if err := r.db.WithContext(ctx).Raw(query, membersdomain.BaptizedHere, civilDate(joinedSince)).Scan(&row).Error; err != nil {
		return analyticsdomain.MemberCounts{}, err
	}
	return row, nil
}

func (r *PostgresRepository) CoupleCounts(ctx context.Context) (analyticsdomain.CoupleCounts, error) {
	query := "SELECT COUNT(*) AS total, " +
		"COUNT(*) FILTER (WHERE status = ?) AS married, " +
		"COUNT(*) FILTER (WHERE status = ?) AS engaged " +
		"FROM couples"

	var row analyticsdomain.CoupleCounts
	if err := r.db.WithContext(ctx).Raw(query, couplesdomain.CoupleMarried, couplesdomain.CoupleEngaged).Scan(&row).Error; err != nil {
		return analyticsdomain.CoupleCounts{}, err
	}
	return row, nil
}

func (r *PostgresRepository) FinanceTotals(ctx context.Context, from time.Time) (analyticsdomain.FinanceTotals, error) {
	query := "SELECT COALESCE(SUM(t.amount) FILTER (WHERE t.type = ?), 0) AS offerings, " +
		"COALESCE(SUM(t.amount) FILTER (WHERE t.type = ?), 0) AS expenses " +
		"FROM financial_transactions t WHERE t.occurred_at >= ?"

	var row analyticsdomain.FinanceTotals
	if err := r.db.WithContext(ctx).Raw(query, financedomain.TypeOffering, financedomain.TypeExpense, from).Scan(&row).Error; err != nil {
		return analyticsdomain.FinanceTotals{}, err
	}
	return row, nil
}

func (r *PostgresRepository) MembersJoinedSince(ctx context.Context, since time.Time, limit int) ([]analyticsdomain.MemberBrief, error) {
	query := "SELECT id, first_name, last_name, membership_date, created_at FROM members " +
		"WHERE membership_date >= ? ORDER BY membership_date DESC, last_name ASC LIMIT ?"

	var rows []analyticsdomain.MemberBrief
	if err := r.db.WithContext(ctx).Raw(query, civilDate(since), limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) MembersCreatedSince(ctx context.Context, since time.Time, limit int) ([]analyticsdomain.MemberBrief, error) {
	query := "SELECT id, first_name, last_name, membership_date, created_at FROM members " +
		"WHERE created_at >= ? ORDER BY created_at DESC LIMIT ?"

	var rows []analyticsdomain.MemberBrief
	if err := r.db.WithContext(ctx).Raw(query, since, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) CouplesCreatedSince(ctx context.Context, since time.Time, limit int) ([]analyticsdomain.CoupleBrief, error) {
	query := "SELECT c.id, " +
		"a.first_name || ' ' || a.last_name AS spouse_a, " +
		"b.first_name || ' ' || b.last_name AS spouse_b, " +
		"c.status, c.wedding_date, c.created_at " +
		"FROM couples c " +
		"JOIN members a ON a.id = c.spouse_a_id " +
		"JOIN members b ON b.id = c.spouse_b_id " +
		"WHERE c.created_at >= ? ORDER BY c.created_at DESC LIMIT ?"

	var rows []analyticsdomain.CoupleBrief
	if err := r.db.WithContext(ctx).Raw(query, since, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) TopGroups(ctx context.Context, limit int) ([]analyticsdomain.GroupSize, error) {
	query := "SELECT g.id, g.name, COUNT(mg.member_id) AS member_count " +
		"FROM groups g LEFT JOIN member_groups mg ON mg.group_id = g.id " +
		"WHERE g.is_active " +
		"GROUP BY g.id, g.name ORDER BY member_count DESC, g.name ASC LIMIT ?"

	var rows []analyticsdomain.GroupSize
	if err := r.db.WithContext(ctx).Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// membership_date is a DATE; compare on the calendar day of the caller's zone.
func civilDate(t time.Time) string {
	return t.Format("2006-01-02")
}
