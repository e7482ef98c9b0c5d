package staff

import (
	"context"
	"errors"
	"time"

	staffdomain "parish-app-go/internal/domain/staff"
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

// UpsertAccount never touches is_active, so a disabled account stays disabled
// across logins.
func (r *PostgresRepository) UpsertAccount(ctx context.Context, account *staffdomain.Account) error {
	updates := map[string]interface{}{
		"last_login_at": account.LastLoginAt,
		"updated_at":    time.Now().UTC(),
	}
	if account.Email != nil {
		updates["email"] = account.Email
	}
	if account.Name != nil {
		updates["name"] = account.Name
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(account).Error
}

func (r *PostgresRepository) GetAccount(ctx context.Context, userID string) (*staffdomain.Account, error) {
	var account staffdomain.Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffdomain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) LinkMember(ctx context.Context, userID string, memberID *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&staffdomain.Account{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"member_id":  memberID,
			"updated_at": time.Now().UTC(),
		})
	if pgerr.IsUniqueViolation(result.Error) {
		return false, staffdomain.ErrMemberLinked
	}
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("members").Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
