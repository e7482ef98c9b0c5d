package members

import (
	"context"
	"errors"
	"time"

	couplesdomain "parish-app-go/internal/domain/couples"
	membersdomain "parish-app-go/internal/domain/members"
	couplesrepo "parish-app-go/internal/repository/postgres/couples"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(membersdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Couples() couplesdomain.Repository {
	return couplesrepo.NewPostgres(r.db)
}

func (r *PostgresRepository) filtered(ctx context.Context, filter membersdomain.ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&membersdomain.Member{})
	if filter.BaptismalStatus != "" {
		query = query.Where("baptismal_status = ?", filter.BaptismalStatus)
	}
	if filter.Query != "" {
		pattern := pgerr.Contains(filter.Query)
		query = query.Where(
			"last_name ILIKE ? OR first_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

func (r *PostgresRepository) ListMembers(ctx context.Context, filter membersdomain.ListFilter) ([]membersdomain.Member, int64, error) {
	query := r.filtered(ctx, filter)

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

	var result []membersdomain.Member
	if err := query.Order("last_name ASC").Order("first_name ASC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *PostgresRepository) BaptismalCounts(ctx context.Context) (membersdomain.BaptismalCounts, error) {
	var counts membersdomain.BaptismalCounts
	err := r.db.WithContext(ctx).Raw(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE baptismal_status = ?) AS baptized_here,
		COUNT(*) FILTER (WHERE baptismal_status = ?) AS not_baptized,
		COUNT(*) FILTER (WHERE baptismal_status = ?) AS baptized_elsewhere
		FROM members`,
		membersdomain.BaptizedHere, membersdomain.NotBaptized, membersdomain.BaptizedElsewhere,
	).Scan(&counts).Error
	return counts, err
}

func (r *PostgresRepository) ExportMembers(ctx context.Context, filter membersdomain.ListFilter) ([]membersdomain.Member, error) {
	var result []membersdomain.Member
	if err := r.filtered(ctx, filter).
		Order("last_name ASC").
		Order("first_name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, id string) (*membersdomain.Member, error) {
	var member membersdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) LockMember(ctx context.Context, id string) (*membersdomain.Member, error) {
	var member membersdomain.Member
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, membersdomain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&membersdomain.Member{}).Where("lower(email) = lower(?)", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *membersdomain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if pgerr.IsUniqueViolation(err) {
		return membersdomain.ErrEmailTaken
	}
	return err
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *membersdomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&membersdomain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"last_name":        member.LastName,
			"first_name":       member.FirstName,
			"birth_date":       member.BirthDate,
			"is_active":        member.IsActive,
			"address":          member.Address,
			"phone":            member.Phone,
			"email":            member.Email,
			"sex":              member.Sex,
			"baptismal_status": member.BaptismalStatus,
			"membership_date":  member.MembershipDate,
			"photo_url":        member.PhotoURL,
			"updated_at":       time.Now().UTC(),
		})
	if pgerr.IsUniqueViolation(result.Error) {
		return membersdomain.ErrEmailTaken
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membersdomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&membersdomain.Member{})
	if pgerr.IsForeignKeyViolation(result.Error) {
		return membersdomain.ErrMemberInCouple
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membersdomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) ListRolesOfMember(ctx context.Context, memberID string) ([]membersdomain.Role, error) {
	var result []membersdomain.Role
	if err := r.db.WithContext(ctx).
		Joins("JOIN member_roles mr ON mr.role_id = roles.id").
		Where("mr.member_id = ?", memberID).
		Order("roles.name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListGroupsOfMember(ctx context.Context, memberID string) ([]membersdomain.Group, error) {
	var result []membersdomain.Group
	if err := r.db.WithContext(ctx).
		Joins("JOIN member_groups mg ON mg.group_id = groups.id").
		Where("mg.member_id = ?", memberID).
		Order("groups.name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListRoles(ctx context.Context) ([]membersdomain.RoleWithCount, error) {
	var result []membersdomain.RoleWithCount
	if err := r.db.WithContext(ctx).
		Table("roles").
		Select("roles.*, COUNT(mr.member_id) AS member_count").
		Joins("LEFT JOIN member_roles mr ON mr.role_id = roles.id").
		Group("roles.id").
		Order("roles.name ASC").
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetRole(ctx context.Context, id string) (*membersdomain.Role, error) {
	var role membersdomain.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *PostgresRepository) ListRoleMembers(ctx context.Context, roleID string) ([]membersdomain.Member, error) {
	var result []membersdomain.Member
	if err := r.db.WithContext(ctx).
		Joins("JOIN member_roles mr ON mr.member_id = members.id").
		Where("mr.role_id = ?", roleID).
		Order("members.last_name ASC").
		Order("members.first_name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// AssignRole is idempotent: assigning a role twice keeps a single link.
func (r *PostgresRepository) AssignRole(ctx context.Context, memberID, roleID string) error {
	link := membersdomain.MemberRole{MemberID: memberID, RoleID: roleID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *PostgresRepository) RevokeRole(ctx context.Context, memberID, roleID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("member_id = ? AND role_id = ?", memberID, roleID).
		Delete(&membersdomain.MemberRole{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListGroups(ctx context.Context, query string) ([]membersdomain.GroupWithCount, error) {
	db := r.db.WithContext(ctx).
		Table("groups").
		Select("groups.*, COUNT(mg.member_id) AS member_count").
		Joins("LEFT JOIN member_groups mg ON mg.group_id = groups.id")
	if query != "" {
		pattern := pgerr.Contains(query)
		db = db.Where("groups.name ILIKE ? OR groups.description ILIKE ?", pattern, pattern)
	}

	var result []membersdomain.GroupWithCount
	if err := db.Group("groups.id").Order("groups.name ASC").Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetGroup(ctx context.Context, id string) (*membersdomain.Group, error) {
	var group membersdomain.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membersdomain.ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *PostgresRepository) ListGroupMembers(ctx context.Context, groupID string) ([]membersdomain.Member, error) {
	var result []membersdomain.Member
	if err := r.db.WithContext(ctx).
		Joins("JOIN member_groups mg ON mg.member_id = members.id").
		Where("mg.group_id = ?", groupID).
		Order("members.last_name ASC").
		Order("members.first_name ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateGroup(ctx context.Context, group *membersdomain.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	if pgerr.IsUniqueViolation(err) {
		return membersdomain.ErrGroupNameTaken
	}
	return err
}

func (r *PostgresRepository) AddToGroup(ctx context.Context, memberID, groupID string) error {
	link := membersdomain.MemberGroup{MemberID: memberID, GroupID: groupID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *PostgresRepository) RemoveFromGroup(ctx context.Context, memberID, groupID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("member_id = ? AND group_id = ?", memberID, groupID).
		Delete(&membersdomain.MemberGroup{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
