package programs

import (
	"time"

	"parish-app-go/internal/domain/schedule"
)

type Category string

const (
	CategoryWorship       Category = "worship"
	CategoryPrayerMeeting Category = "prayer_meeting"
	CategoryBibleStudy    Category = "bible_study"
	CategorySpecialEvent  Category = "special_event"
	CategoryTraining      Category = "training"
	CategoryYouth         Category = "youth"
	CategoryChildren      Category = "children"
)

var Categories = []Category{
	CategoryWorship,
	CategoryPrayerMeeting,
	CategoryBibleStudy,
	CategorySpecialEvent,
	CategoryTraining,
	CategoryYouth,
	CategoryChildren,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var categoryColors = map[Category]string{
	CategoryWorship:       "#9333ea",
	CategoryPrayerMeeting: "#16a34a",
	CategoryBibleStudy:    "#ca8a04",
	CategorySpecialEvent:  "#dc2626",
	CategoryTraining:      "#2563eb",
	CategoryYouth:         "#db2777",
	CategoryChildren:      "#0891b2",
}

const defaultCategoryColor = "#4b5563"

func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return defaultCategoryColor
}

type ChurchProgram struct {
	ID          string              `gorm:"type:uuid;primaryKey"`
	Title       string              `gorm:"size:200;not null"`
	Description *string             `gorm:"type:text"`
	StartDate   *time.Time          `gorm:"type:date;index"`
	StartTime   *string             `gorm:"type:varchar(8)"`
	EndDate     *time.Time          `gorm:"type:date"`
	EndTime     *string             `gorm:"type:varchar(8)"`
	Location    string              `gorm:"size:200;not null"`
	Category    Category            `gorm:"type:varchar(20);not null;index"`
	Recurrence  schedule.Recurrence `gorm:"type:varchar(10);not null;default:none"`
	CreatedAt   time.Time           `gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime"`
}

// Anchor builds the recurrence anchor of the program; nil without a start date.
// An unparsable stored time degrades to a date-only anchor.
func (p ChurchProgram) Anchor() *schedule.Anchor {
	if p.StartDate == nil {
		return nil
	}
	anchor := &schedule.Anchor{Date: *p.StartDate}
	if p.StartTime != nil {
		if tod, err := schedule.ParseTimeOfDay(*p.StartTime); err == nil {
			anchor.Time = &tod
		}
	}
	return anchor
}

// ProgramView is a program enriched with its computed next occurrence.
type ProgramView struct {
	Program  ChurchProgram
	Next     *schedule.Occurrence
	Imminent bool
}

type ListFilter struct {
	Category Category
	Query    string
}

type CategoryStats struct {
	Total      int64
	ByCategory map[Category]int64
}

type ProgramInput struct {
	Title       string
	Description *string
	StartDate   *time.Time
	StartTime   *schedule.TimeOfDay
	EndDate     *time.Time
	EndTime     *schedule.TimeOfDay
	Location    string
	Category    Category
	Recurrence  schedule.Recurrence
}

type CalendarEvent struct {
	ID          string
	Title       string
	Start       *time.Time
	End         *time.Time
	Color       string
	Category    Category
	Location    string
	Description string
}

type AgendaEntry struct {
	ProgramID  string
	Title      string
	Category   Category
	Location   string
	Occurrence schedule.Occurrence
	Recurrence schedule.Recurrence
}
