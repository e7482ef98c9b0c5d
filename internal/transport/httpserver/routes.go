package httpserver

import (
	"net/http"

	"parish-app-go/internal/config"
	"parish-app-go/internal/metrics"
	"parish-app-go/internal/transport/httpserver/handler"
	authmw "parish-app-go/internal/transport/httpserver/middleware"
	"parish-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, accounts authmw.AccountRecorder, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout(cfg)))
	r.Use(metrics.Middleware)
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)
		r.Post("/access-requests", handlers.Access.Submit)

		auth := authmw.NewStaffAuth(cfg.Auth, accounts, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.Common.AuthMe)
			r.Put("/auth/me/member", handlers.Common.LinkMember)

			r.Get("/dashboard", handlers.Analytics.Dashboard)
			r.Get("/statistics", handlers.Analytics.Statistics)

			r.Get("/members", handlers.Members.ListMembers)
			r.Get("/members/export", handlers.Members.ExportMembers)
			r.Post("/members", handlers.Members.CreateMember)
			r.Get("/members/{id}", handlers.Members.GetMember)
			r.Put("/members/{id}", handlers.Members.UpdateMember)
			r.Delete("/members/{id}", handlers.Members.DeleteMember)
			r.Post("/members/{id}/roles", handlers.Members.AssignRole)
			r.Delete("/members/{id}/roles/{role_id}", handlers.Members.RevokeRole)

			r.Get("/roles", handlers.Members.ListRoles)
			r.Get("/roles/{id}", handlers.Members.GetRole)

			r.Get("/groups", handlers.Members.ListGroups)
			r.Post("/groups", handlers.Members.CreateGroup)
			r.Get("/groups/{id}", handlers.Members.GetGroup)
			r.Post("/groups/{id}/members", handlers.Members.AddGroupMember)
			r.Delete("/groups/{id}/members/{member_id}", handlers.Members.RemoveGroupMember)

			r.Get("/couples", handlers.Couples.ListCouples)
			r.Post("/couples", handlers.Couples.CreateCouple)
			r.Get("/couples/{id}", handlers.Couples.GetCouple)
			r.Put("/couples/{id}", handlers.Couples.UpdateCouple)
			r.Delete("/couples/{id}", handlers.Couples.DeleteCouple)
			r.Post("/couples/{id}/marriage-programs", handlers.Couples.CreateProgram)

			r.Get("/marriage-programs", handlers.Couples.ListPrograms)
			r.Get("/marriage-programs/{id}", handlers.Couples.GetProgram)
			r.Put("/marriage-programs/{id}", handlers.Couples.UpdateProgram)
			r.Delete("/marriage-programs/{id}", handlers.Couples.DeleteProgram)

			r.Get("/programs", handlers.Programs.ListPrograms)
			r.Post("/programs", handlers.Programs.CreateProgram)
			r.Get("/programs/calendar", handlers.Programs.Calendar)
			r.Get("/programs/agenda", handlers.Programs.Agenda)
			r.Get("/programs/{id}", handlers.Programs.GetProgram)
			r.Put("/programs/{id}", handlers.Programs.UpdateProgram)
			r.Delete("/programs/{id}", handlers.Programs.DeleteProgram)

			r.Get("/transactions", handlers.Finance.ListTransactions)
			r.Post("/transactions", handlers.Finance.CreateTransaction)
			r.Get("/transactions/{id}", handlers.Finance.GetTransaction)
			r.Delete("/transactions/{id}", handlers.Finance.DeleteTransaction)

			r.Get("/donations", handlers.Finance.ListDonations)
			r.Post("/donations", handlers.Finance.CreateDonation)
			r.Patch("/donations/{id}/status", handlers.Finance.UpdateDonationStatus)

			r.Get("/access-requests", handlers.Access.ListRequests)
			r.Post("/access-requests/{id}/process", handlers.Access.MarkProcessed)
		})
	})

	return r
}
