package members

import "time"

type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

type BaptismalStatus string

const (
	BaptizedHere      BaptismalStatus = "baptized_here"
	NotBaptized       BaptismalStatus = "not_baptized"
	BaptizedElsewhere BaptismalStatus = "baptized_elsewhere"
)

func (s BaptismalStatus) Valid() bool {
	return s == BaptizedHere || s == NotBaptized || s == BaptizedElsewhere
}

type Member struct {
	ID              string          `gorm:"type:uuid;primaryKey"`
	LastName        string          `gorm:"size:100;not null;index:idx_members_name,priority:1"`
	FirstName       string          `gorm:"size:100;not null;index:idx_members_name,priority:2"`
	BirthDate       time.Time       `gorm:"type:date;not null"`
	IsActive        bool            `gorm:"not null;default:true"`
	Address         string          `gorm:"type:text;not null"`
	Phone           string          `gorm:"size:20;not null"`
	Email           string          `gorm:"size:254;not null;uniqueIndex"`
	Sex             *Sex            `gorm:"type:varchar(1)"`
	BaptismalStatus BaptismalStatus `gorm:"type:varchar(25);not null;default:not_baptized"`
	MembershipDate  time.Time       `gorm:"type:date;not null"`
	PhotoURL        *string         `gorm:"type:text"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

type RoleName string

const (
	RolePastor             RoleName = "pastor"
	RoleDeacon             RoleName = "deacon"
	RoleProtocol           RoleName = "protocol"
	RoleEvangelist         RoleName = "evangelist"
	RoleStandardMember     RoleName = "standard_member"
	RoleAdministrator      RoleName = "administrator"
	RoleTreasurer          RoleName = "treasurer"
	RoleProgramCoordinator RoleName = "program_coordinator"
)

var RoleNames = []RoleName{
	RolePastor,
	RoleDeacon,
	RoleProtocol,
	RoleEvangelist,
	RoleStandardMember,
	RoleAdministrator,
	RoleTreasurer,
	RoleProgramCoordinator,
}

func (r RoleName) Valid() bool {
	for _, known := range RoleNames {
		if r == known {
			return true
		}
	}
	return false
}

type Role struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        RoleName  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type MemberRole struct {
	MemberID  string    `gorm:"type:uuid;primaryKey"`
	RoleID    string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Group struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Description *string   `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type MemberGroup struct {
	MemberID  string    `gorm:"type:uuid;primaryKey"`
	GroupID   string    `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type ListFilter struct {
	Query           string
	BaptismalStatus BaptismalStatus
	Limit           int
	Offset          int
}

type BaptismalCounts struct {
	Total             int64
	BaptizedHere      int64
	NotBaptized       int64
	BaptizedElsewhere int64
}

type RoleWithCount struct {
	Role
	MemberCount int64
}

type GroupWithCount struct {
	Group
	MemberCount int64
}

// Detail is a member with the roles and groups it belongs to.
type Detail struct {
	Member Member
	Roles  []Role
	Groups []Group
}

type MemberInput struct {
	LastName        string
	FirstName       string
	BirthDate       time.Time
	IsActive        *bool
	Address         string
	Phone           string
	Email           string
	Sex             *Sex
	BaptismalStatus BaptismalStatus
	MembershipDate  time.Time
	PhotoURL        *string
}
