package analytics

import (
	"net/http"
	"time"

	analyticsdomain "parish-app-go/internal/domain/analytics"
	programsdomain "parish-app-go/internal/domain/programs"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Analytics *analyticsdomain.Service
	log       logger.Logger
}

func New(analytics *analyticsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Analytics: analytics,
		log:       log,
	}
}

type totalsResponse struct {
	Offerings float64 `json:"offerings"`
	Expenses  float64 `json:"expenses"`
	Balance   float64 `json:"balance"`
}

type upcomingResponse struct {
	ProgramID string     `json:"program_id"`
	Title     string     `json:"title"`
	Category  string     `json:"category"`
	Location  string     `json:"location"`
	Date      string     `json:"date"`
	At        *time.Time `json:"at,omitempty"`
}

type dashboardResponse struct {
	TotalMembers     int64                         `json:"total_members"`
	MarriedCouples   int64                         `json:"married_couples"`
	ProgramsThisWeek int                           `json:"programs_this_week"`
	Month            totalsResponse                `json:"month"`
	UpcomingPrograms []upcomingResponse            `json:"upcoming_programs"`
	NewMembers       []analyticsdomain.MemberBrief `json:"new_members"`
	RecentlyAdded    []analyticsdomain.MemberBrief `json:"recently_added"`
	NewCouples       []analyticsdomain.CoupleBrief `json:"new_couples"`
}

type coupleCountsResponse struct {
	Total   int64 `json:"total"`
	Married int64 `json:"married"`
	Engaged int64 `json:"engaged"`
}

type statisticsResponse struct {
	TotalMembers     int64                       `json:"total_members"`
	BaptizedMembers  int64                       `json:"baptized_members"`
	BaptizedPercent  float64                     `json:"baptized_percent"`
	NewMembers30Days int64                       `json:"new_members_30_days"`
	Couples          coupleCountsResponse        `json:"couples"`
	Year             totalsResponse              `json:"year"`
	TopGroups        []analyticsdomain.GroupSize `json:"top_groups"`
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Analytics.Dashboard(r.Context())
	if err != nil {
		h.log.InternalError("analytics.dashboard: failed", err)
		commonhandler.WriteInternalError(w)
		return
	}

	response := dashboardResponse{
		TotalMembers:     dashboard.TotalMembers,
		MarriedCouples:   dashboard.MarriedCouples,
		ProgramsThisWeek: dashboard.ProgramsThisWeek,
		Month:            toTotalsResponse(dashboard.Month),
		UpcomingPrograms: make([]upcomingResponse, 0, len(dashboard.UpcomingPrograms)),
		NewMembers:       nonNil(dashboard.NewMembers),
		RecentlyAdded:    nonNil(dashboard.RecentlyAdded),
		NewCouples:       nonNil(dashboard.NewCouples),
	}
	for _, entry := range dashboard.UpcomingPrograms {
		response.UpcomingPrograms = append(response.UpcomingPrograms, toUpcomingResponse(entry))
	}
	commonhandler.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Analytics.Statistics(r.Context())
	if err != nil {
		h.log.InternalError("analytics.statistics: failed", err)
		commonhandler.WriteInternalError(w)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, statisticsResponse{
		TotalMembers:     stats.TotalMembers,
		BaptizedMembers:  stats.BaptizedMembers,
		BaptizedPercent:  stats.BaptizedPercent,
		NewMembers30Days: stats.NewMembers30Days,
		Couples: coupleCountsResponse{
			Total:   stats.Couples.Total,
			Married: stats.Couples.Married,
			Engaged: stats.Couples.Engaged,
		},
		Year:      toTotalsResponse(stats.Year),
		TopGroups: nonNil(stats.TopGroups),
	})
}

func toTotalsResponse(totals analyticsdomain.FinanceTotals) totalsResponse {
	return totalsResponse{Offerings: totals.Offerings, Expenses: totals.Expenses, Balance: totals.Balance()}
}

func toUpcomingResponse(entry programsdomain.AgendaEntry) upcomingResponse {
	response := upcomingResponse{
		ProgramID: entry.ProgramID,
		Title:     entry.Title,
		Category:  string(entry.Category),
		Location:  entry.Location,
		Date:      commonhandler.FormatDate(entry.Occurrence.Date),
	}
	if entry.Occurrence.HasTime {
		at := entry.Occurrence.At
		response.At = &at
	}
	return response
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
