package analytics

import (
	"context"
	"math"
	"time"

	"parish-app-go/internal/domain/programs"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardWeekDays     = 7
	dashboardListSize     = 5
	newMembersWindowDays  = 30
	recentlyAddedWindow   = 48 * time.Hour
	newCouplesWindowDays  = 30
	statisticsTopGroupCap = 5
)

// AgendaSource yields the imminent program occurrences of the coming days.
type AgendaSource interface {
	Agenda(ctx context.Context, horizonDays int) ([]programs.AgendaEntry, error)
}

type Service struct {
	repo   Repository
	agenda AgendaSource
	loc    *time.Location
	now    func() time.Time
}

func NewService(repo Repository, agenda AgendaSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, agenda: agenda, loc: loc, now: time.Now}
}

// Dashboard gathers the home page figures. The queries are independent and
// run concurrently; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	var (
		result  Dashboard
		members MemberCounts
		couples CoupleCounts
		agenda  []programs.AgendaEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.repo.MemberCounts(gctx, today.AddDate(0, 0, -newMembersWindowDays))
		return err
	})
	g.Go(func() (err error) {
		couples, err = s.repo.CoupleCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.Month, err = s.repo.FinanceTotals(gctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		agenda, err = s.agenda.Agenda(gctx, dashboardWeekDays)
		return err
	})
	g.Go(func() (err error) {
		result.NewMembers, err = s.repo.MembersJoinedSince(gctx, today.AddDate(0, 0, -newMembersWindowDays), dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		result.RecentlyAdded, err = s.repo.MembersCreatedSince(gctx, now.Add(-recentlyAddedWindow), dashboardListSize)
		return err
	})
	g.Go(func() (err error) {
		result.NewCouples, err = s.repo.CouplesCreatedSince(gctx, now.AddDate(0, 0, -newCouplesWindowDays), dashboardListSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	result.TotalMembers = members.Total
	result.MarriedCouples = couples.Married
	result.ProgramsThisWeek = len(agenda)
	if len(agenda) > dashboardListSize {
		agenda = agenda[:dashboardListSize]
	}
	result.UpcomingPrograms = agenda
	return result, nil
}

func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.loc)

	var (
		result  Statistics
		members MemberCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		members, err = s.repo.MemberCounts(gctx, today.AddDate(0, 0, -newMembersWindowDays))
		return err
	})
	g.Go(func() (err error) {
		result.Couples, err = s.repo.CoupleCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		result.Year, err = s.repo.FinanceTotals(gctx, yearStart)
		return err
	})
	g.Go(func() (err error) {
		result.TopGroups, err = s.repo.TopGroups(gctx, statisticsTopGroupCap)
		return err
	})
	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}

	result.TotalMembers = members.Total
	result.BaptizedMembers = members.BaptizedHere
	result.NewMembers30Days = members.JoinedSince
	result.BaptizedPercent = percent(members.BaptizedHere, members.Total)
	return result, nil
}

func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
