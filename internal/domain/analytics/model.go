package analytics

import (
	"time"

	"parish-app-go/internal/domain/programs"
)

type MemberCounts struct {
	Total        int64
	BaptizedHere int64
	JoinedSince  int64
}

type CoupleCounts struct {
	Total   int64
	Married int64
	Engaged int64
}

type FinanceTotals struct {
	Offerings float64
	Expenses  float64
}

func (t FinanceTotals) Balance() float64 {
	return t.Offerings - t.Expenses
}

type MemberBrief struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	MembershipDate time.Time `json:"membership_date"`
	CreatedAt      time.Time `json:"created_at"`
}

type CoupleBrief struct {
	ID          string     `json:"id"`
	SpouseA     string     `json:"spouse_a"`
	SpouseB     string     `json:"spouse_b"`
	Status      string     `json:"status"`
	WeddingDate *time.Time `json:"wedding_date"`
	CreatedAt   time.Time  `json:"created_at"`
}

type GroupSize struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
}

type Dashboard struct {
	TotalMembers     int64
	MarriedCouples   int64
	ProgramsThisWeek int
	Month            FinanceTotals
	UpcomingPrograms []programs.AgendaEntry
	NewMembers       []MemberBrief
	RecentlyAdded    []MemberBrief
	NewCouples       []CoupleBrief
}

type Statistics struct {
	TotalMembers     int64
	BaptizedMembers  int64
	BaptizedPercent  float64
	NewMembers30Days int64
	Couples          CoupleCounts
	Year             FinanceTotals
	TopGroups        []GroupSize
}
