package couples

import "time"

type CoupleStatus string

const (
	CoupleMarried CoupleStatus = "married"
	CoupleEngaged CoupleStatus = "engaged"
)

func (s CoupleStatus) Valid() bool {
	return s == CoupleMarried || s == CoupleEngaged
}

type ProgramStatus string

const (
	ProgramPlanned    ProgramStatus = "planned"
	ProgramInProgress ProgramStatus = "in_progress"
	ProgramCompleted  ProgramStatus = "completed"
	ProgramCancelled  ProgramStatus = "cancelled"
)

func (s ProgramStatus) Valid() bool {
	switch s {
	case ProgramPlanned, ProgramInProgress, ProgramCompleted, ProgramCancelled:
		return true
	default:
		return false
	}
}

// Active programs block deletion of their couple.
func (s ProgramStatus) Active() bool {
	return s == ProgramPlanned || s == ProgramInProgress
}

type Couple struct {
	ID          string       `gorm:"type:uuid;primaryKey"`
	SpouseAID   string       `gorm:"type:uuid;not null;uniqueIndex:idx_couples_spouses"`
	SpouseBID   string       `gorm:"type:uuid;not null;uniqueIndex:idx_couples_spouses"`
	IsActive    bool         `gorm:"not null;default:true"`
	Status      CoupleStatus `gorm:"type:varchar(10);not null"`
	WeddingDate *time.Time   `gorm:"type:date"`
	CreatedAt   time.Time    `gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime"`
}

// Spouse is the display projection of a member inside a couple.
type Spouse struct {
	ID        string
	FirstName string
	LastName  string
}

func (s Spouse) FullName() string {
	return s.FirstName + " " + s.LastName
}

type CoupleWithSpouses struct {
	Couple
	SpouseA Spouse
	SpouseB Spouse
}

type MarriageProgram struct {
	ID          string        `gorm:"type:uuid;primaryKey"`
	CoupleID    string        `gorm:"type:uuid;index;not null"`
	Title       string        `gorm:"size:200;not null"`
	Description *string       `gorm:"type:text"`
	StartsAt    time.Time     `gorm:"not null"`
	EndsAt      time.Time     `gorm:"not null"`
	Location    *string       `gorm:"size:200"`
	Status      ProgramStatus `gorm:"type:varchar(15);not null;default:planned"`
	CreatedAt   time.Time     `gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime"`
}

type CoupleFilter struct {
	Status CoupleStatus
	Limit  int
	Offset int
}

type CoupleStats struct {
	Married          int64
	Engaged          int64
	MarriedThisMonth int64
}

type ProgramFilter struct {
	Status ProgramStatus
	Query  string
	Limit  int
	Offset int
}

type CreateCoupleInput struct {
	SpouseAID   string
	SpouseBID   string
	Status      CoupleStatus
	WeddingDate *time.Time
}

type UpdateCoupleInput struct {
	ID          string
	SpouseAID   string
	SpouseBID   string
	Status      CoupleStatus
	WeddingDate *time.Time
	IsActive    *bool
}

type MarriageProgramInput struct {
	Title       string
	Description *string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    *string
	Status      ProgramStatus
}
