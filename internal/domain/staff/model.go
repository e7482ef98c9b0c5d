package staff

import "time"

// Account is a back-office user authenticated by the external identity
// provider, optionally linked to the member record of the same person.
type Account struct {
	UserID      string     `gorm:"type:uuid;primaryKey"`
	Email       *string    `gorm:"type:text"`
	Name        *string    `gorm:"type:text"`
	MemberID    *string    `gorm:"type:uuid;uniqueIndex"`
	IsActive    bool       `gorm:"not null;default:true"`
	LastLoginAt *time.Time
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (Account) TableName() string {
	return "staff_accounts"
}
