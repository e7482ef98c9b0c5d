package finance

import "time"

type TransactionType string

const (
	TypeOffering TransactionType = "offering"
	TypeDonation TransactionType = "donation"
	TypeExpense  TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TypeOffering, TypeDonation, TypeExpense:
		return true
	default:
		return false
	}
}

type ExpenseCategory string

const (
	ExpenseRent        ExpenseCategory = "rent"
	ExpenseSalaries    ExpenseCategory = "salaries"
	ExpenseEquipment   ExpenseCategory = "equipment"
	ExpenseSocialWorks ExpenseCategory = "social_works"
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseElectricity ExpenseCategory = "electricity"
	ExpenseWater       ExpenseCategory = "water"
	ExpenseOther       ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseRent,
	ExpenseSalaries,
	ExpenseEquipment,
	ExpenseSocialWorks,
	ExpenseMaintenance,
	ExpenseElectricity,
	ExpenseWater,
	ExpenseOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Transaction struct {
	ID              string           `gorm:"type:uuid;primaryKey"`
	Type            TransactionType  `gorm:"type:varchar(10);not null;index"`
	Amount          float64          `gorm:"type:numeric(10,2);not null"`
	OccurredAt      time.Time        `gorm:"not null;index"`
	Description     *string          `gorm:"type:text"`
	MemberID        *string          `gorm:"type:uuid;index"`
	ExpenseCategory *ExpenseCategory `gorm:"type:varchar(20)"`
	CreatedAt       time.Time        `gorm:"autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "financial_transactions"
}

// TransactionWithMember carries the display name of the linked member, if any.
type TransactionWithMember struct {
	Transaction
	MemberName *string
}

type DonationStatus string

const (
	DonationReceived DonationStatus = "received"
	DonationUsed     DonationStatus = "used"
	DonationPending  DonationStatus = "pending"
)

func (s DonationStatus) Valid() bool {
	return s == DonationReceived || s == DonationUsed || s == DonationPending
}

type MaterialDonation struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	MemberID       string         `gorm:"type:uuid;not null;index"`
	Description    string         `gorm:"type:text;not null"`
	EstimatedValue *float64       `gorm:"type:numeric(10,2)"`
	DonatedAt      time.Time      `gorm:"not null;index"`
	Status         DonationStatus `gorm:"type:varchar(15);not null;default:received"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

type DonationWithMember struct {
	MaterialDonation
	MemberName string
}

type TransactionFilter struct {
	Type     TransactionType
	Category ExpenseCategory
	MemberID string
	From     *time.Time
	Limit    int
	Offset   int
}

type DonationFilter struct {
	Status   DonationStatus
	MemberID string
	Query    string
	Limit    int
	Offset   int
}

// Totals sums offerings and expenses; donations count in neither.
type Totals struct {
	Offerings float64
	Expenses  float64
}

func (t Totals) Balance() float64 {
	return t.Offerings - t.Expenses
}

type TransactionInput struct {
	Type            TransactionType
	Amount          float64
	OccurredAt      time.Time
	Description     *string
	MemberID        *string
	ExpenseCategory *ExpenseCategory
}

type DonationInput struct {
	MemberID       string
	Description    string
	EstimatedValue *float64
	DonatedAt      time.Time
	Status         DonationStatus
}
