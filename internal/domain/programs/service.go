package programs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"parish-app-go/internal/domain/listing"
	"parish-app-go/internal/domain/schedule"

	"github.com/google/uuid"
)

const (
	PageSize       = 10
	agendaCacheTTL = 30 * time.Minute
)

type Service struct {
	repo     Repository
	engine   *schedule.Engine
	cache    AgendaCache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository, engine *schedule.Engine, cache AgendaCache) *Service {
	if engine == nil {
		engine = schedule.NewEngine(time.UTC)
	}
	if cache == nil {
		cache = noopAgendaCache{}
	}
	return &Service{
		repo:     repo,
		engine:   engine,
		cache:    cache,
		cacheTTL: agendaCacheTTL,
		now:      time.Now,
	}
}

func (s *Service) SetAgendaTTL(ttl time.Duration) {
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

type ListResult struct {
	Items []ProgramView
	Page  listing.PageInfo
	Stats CategoryStats
}

// List returns the programs matching filter ordered by their next occurrence;
// programs without one come last.
func (s *Service) List(ctx context.Context, filter ListFilter, page int) (ListResult, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Category != "" && !filter.Category.Valid() {
		return ListResult{}, ErrInvalidCategory
	}

	items, err := s.repo.ListPrograms(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	counts, err := s.repo.CountByCategory(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}

	views, err := s.views(items)
	if err != nil {
		return ListResult{}, err
	}
	s.sortByNext(views)

	info := listing.Resolve(page, PageSize, int64(len(views)))
	return ListResult{
		Items: listing.Slice(views, info),
		Page:  info,
		Stats: toCategoryStats(counts),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ProgramView, error) {
	program, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.view(*program, s.now())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// resolveRecurrence maps an empty recurrence to none. An unknown one is
// rejected by a strict engine and treated as none otherwise.
func (s *Service) resolveRecurrence(input ProgramInput) (ProgramInput, error) {
	switch {
	case input.Recurrence == "":
		input.Recurrence = schedule.RecurrenceNone
	case !input.Recurrence.Valid():
		if s.engine.Strict() {
			return input, fmt.Errorf("%w: %q", ErrInvalidRecurrence, input.Recurrence)
		}
		input.Recurrence = schedule.RecurrenceNone
	}
	return input, nil
}

// ApplyDefaultRecurrencePolicy turns a program anchored on a Thursday into a
// weekly one, whatever recurrence was requested.
func ApplyDefaultRecurrencePolicy(input ProgramInput) ProgramInput {
	input.Recurrence = schedule.ThursdayPolicy(input.StartDate, input.Recurrence)
	return input
}

func (s *Service) Create(ctx context.Context, input ProgramInput) (*ChurchProgram, error) {
	input, err := s.resolveRecurrence(input)
	if err != nil {
		return nil, err
	}
	input = ApplyDefaultRecurrencePolicy(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	program := ChurchProgram{ID: uuid.NewString()}
	applyInput(&program, input)
	if err := s.repo.CreateProgram(ctx, &program); err != nil {
		return nil, err
	}
	s.cache.Clear()
	return &program, nil
}

func (s *Service) Update(ctx context.Context, id string, input ProgramInput) (*ChurchProgram, error) {
	input, err := s.resolveRecurrence(input)
	if err != nil {
		return nil, err
	}
	input = ApplyDefaultRecurrencePolicy(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	program, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	applyInput(program, input)
	if err := s.repo.UpdateProgram(ctx, program); err != nil {
		return nil, err
	}
	s.cache.Clear()
	return program, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteProgram(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProgramNotFound
	}
	s.cache.Clear()
	return nil
}

// Calendar lists every dated program as a calendar event coloured by category.
func (s *Service) Calendar(ctx context.Context, category Category) ([]CalendarEvent, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	items, err := s.repo.ListPrograms(ctx, ListFilter{Category: category})
	if err != nil {
		return nil, err
	}

	events := make([]CalendarEvent, 0, len(items))
	for _, item := range items {
		if item.StartDate == nil {
			continue
		}
		start := s.wallClock(*item.StartDate, item.StartTime)
		if start == nil {
			continue
		}
		event := CalendarEvent{
			ID:       item.ID,
			Title:    item.Title,
			Start:    start,
			Color:    item.Category.Color(),
			Category: item.Category,
			Location: item.Location,
		}
		if item.EndDate != nil {
			event.End = s.wallClock(*item.EndDate, item.EndTime)
		}
		if item.Description != nil {
			event.Description = *item.Description
		}
		events = append(events, event)
	}
	return events, nil
}

// Agenda returns the imminent occurrences falling within the next horizonDays
// days, served from the cache when possible.
func (s *Service) Agenda(ctx context.Context, horizonDays int) ([]AgendaEntry, error) {
	now := s.now()
	key := agendaKey(s.engine.Today(now), horizonDays)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	entries, err := s.buildAgenda(ctx, now, horizonDays)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, entries, s.cacheTTL)
	return entries, nil
}

// RefreshAgenda drops every cached agenda and rebuilds the one for horizonDays.
func (s *Service) RefreshAgenda(ctx context.Context, horizonDays int) ([]AgendaEntry, error) {
	s.cache.Clear()
	return s.Agenda(ctx, horizonDays)
}

func (s *Service) buildAgenda(ctx context.Context, now time.Time, horizonDays int) ([]AgendaEntry, error) {
	if horizonDays < 0 {
		horizonDays = 0
	}
	items, err := s.repo.ListPrograms(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	views, err := s.views(items)
	if err != nil {
		return nil, err
	}
	s.sortByNext(views)

	today := s.engine.Today(now)
	limit := today.AddDate(0, 0, horizonDays)
	entries := make([]AgendaEntry, 0, len(views))
	for _, view := range views {
		if !view.Imminent || view.Next.Date.After(limit) {
			continue
		}
		entries = append(entries, AgendaEntry{
			ProgramID:  view.Program.ID,
			Title:      view.Program.Title,
			Category:   view.Program.Category,
			Location:   view.Program.Location,
			Occurrence: *view.Next,
			Recurrence: view.Program.Recurrence,
		})
	}
	return entries, nil
}

func (s *Service) views(items []ChurchProgram) ([]ProgramView, error) {
	now := s.now()
	views := make([]ProgramView, 0, len(items))
	for _, item := range items {
		view, err := s.view(item, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) view(program ChurchProgram, now time.Time) (ProgramView, error) {
	next, err := s.engine.NextOccurrence(program.Anchor(), program.Recurrence, s.engine.Today(now))
	if err != nil {
		return ProgramView{}, fmt.Errorf("program %s: %w", program.ID, err)
	}
	return ProgramView{
		Program:  program,
		Next:     next,
		Imminent: s.engine.IsImminent(next, now),
	}, nil
}

func (s *Service) sortByNext(views []ProgramView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Next, views[j].Next
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return s.engine.Instant(a).Before(s.engine.Instant(b))
		}
	})
}

func (s *Service) wallClock(date time.Time, value *string) *time.Time {
	anchor := &schedule.Anchor{Date: date}
	if value != nil {
		if tod, err := schedule.ParseTimeOfDay(*value); err == nil {
			anchor.Time = &tod
		}
	}
	occ, err := s.engine.NextOccurrence(anchor, schedule.RecurrenceNone, date)
	if err != nil || occ == nil {
		return nil
	}
	at := time.Date(occ.Date.Year(), occ.Date.Month(), occ.Date.Day(), 0, 0, 0, 0, s.engine.Location())
	if occ.HasTime {
		at = occ.At
	}
	return &at
}

func agendaKey(today time.Time, horizonDays int) string {
	return fmt.Sprintf("%s/%d", today.Format("2006-01-02"), horizonDays)
}

func toCategoryStats(counts map[Category]int64) CategoryStats {
	stats := CategoryStats{ByCategory: make(map[Category]int64, len(Categories))}
	for _, category := range Categories {
		stats.ByCategory[category] = counts[category]
		stats.Total += counts[category]
	}
	return stats
}

func validateInput(input ProgramInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	}
	if !input.Category.Valid() {
		return ErrInvalidCategory
	}
	if !input.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if input.Recurrence != schedule.RecurrenceNone && input.StartDate == nil {
		return ErrAnchorRequired
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return fmt.Errorf("%w: end date must not precede start date", ErrInvalidInput)
	}
	return nil
}

func applyInput(program *ChurchProgram, input ProgramInput) {
	program.Title = strings.TrimSpace(input.Title)
	program.Description = input.Description
	program.StartDate = civilPtr(input.StartDate)
	program.StartTime = timeString(input.StartTime)
	program.EndDate = civilPtr(input.EndDate)
	program.EndTime = timeString(input.EndTime)
	program.Location = strings.TrimSpace(input.Location)
	program.Category = input.Category
	program.Recurrence = input.Recurrence
}

func civilPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	civil := schedule.Civil(*value)
	return &civil
}

func timeString(value *schedule.TimeOfDay) *string {
	if value == nil {
		return nil
	}
	formatted := value.String()
	return &formatted
}
