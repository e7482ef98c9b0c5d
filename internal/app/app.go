package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"parish-app-go/internal/config"
	"parish-app-go/internal/db"
	accessdomain "parish-app-go/internal/domain/access"
	analyticsdomain "parish-app-go/internal/domain/analytics"
	couplesdomain "parish-app-go/internal/domain/couples"
	financedomain "parish-app-go/internal/domain/finance"
	membersdomain "parish-app-go/internal/domain/members"
	programsdomain "parish-app-go/internal/domain/programs"
	"parish-app-go/internal/domain/schedule"
	staffdomain "parish-app-go/internal/domain/staff"
	"parish-app-go/internal/repository/inmemory"
	accessrepo "parish-app-go/internal/repository/postgres/access"
	analyticsrepo "parish-app-go/internal/repository/postgres/analytics"
	couplesrepo "parish-app-go/internal/repository/postgres/couples"
	financerepo "parish-app-go/internal/repository/postgres/finance"
	membersrepo "parish-app-go/internal/repository/postgres/members"
	programsrepo "parish-app-go/internal/repository/postgres/programs"
	staffrepo "parish-app-go/internal/repository/postgres/staff"
	"parish-app-go/internal/scheduler"
	"parish-app-go/internal/transport/httpserver"
	"parish-app-go/internal/transport/httpserver/handler"
	accesshandler "parish-app-go/internal/transport/httpserver/handler/access"
	analyticshandler "parish-app-go/internal/transport/httpserver/handler/analytics"
	commonhandler "parish-app-go/internal/transport/httpserver/handler/common"
	coupleshandler "parish-app-go/internal/transport/httpserver/handler/couples"
	financehandler "parish-app-go/internal/transport/httpserver/handler/finance"
	membershandler "parish-app-go/internal/transport/httpserver/handler/members"
	programshandler "parish-app-go/internal/transport/httpserver/handler/programs"
	"parish-app-go/pkg/logger"

	"gorm.io/gorm"
)

const warmupTimeout = 10 * time.Second

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	agenda     *scheduler.AgendaScheduler
}

type Options struct {
	// Migrate applies pending SQL migrations before the server is built.
	Migrate bool
}

func New(log logger.Logger, opts Options) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	application := &App{cfg: cfg, log: log, db: dbConn}

	if opts.Migrate {
		if _, err := db.Migrate(dbConn, log); err != nil {
			_ = application.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	var engineOpts []schedule.Option
	if cfg.Agenda.Strict {
		engineOpts = append(engineOpts, schedule.WithStrict())
	}
	engine := schedule.NewEngine(cfg.Location, engineOpts...)

	membersRepo := membersrepo.NewPostgres(dbConn)
	couplesRepo := couplesrepo.NewPostgres(dbConn)
	programsRepo := programsrepo.NewPostgres(dbConn)
	financeRepo := financerepo.NewPostgres(dbConn)
	accessRepo := accessrepo.NewPostgres(dbConn)
	staffRepo := staffrepo.NewPostgres(dbConn)
	analyticsRepo := analyticsrepo.NewPostgres(dbConn)

	programsService := programsdomain.NewService(programsRepo, engine, inmemory.NewInMemoryAgendaCache())
	programsService.SetAgendaTTL(cfg.Agenda.CacheTTL)
	membersService := membersdomain.NewService(membersRepo)
	couplesService := couplesdomain.NewService(couplesRepo, cfg.Location)
	financeService := financedomain.NewService(financeRepo)
	accessService := accessdomain.NewService(accessRepo)
	staffService := staffdomain.NewService(staffRepo)
	analyticsService := analyticsdomain.NewService(analyticsRepo, programsService, cfg.Location)

	handlers := &handler.Handlers{
		Common:    commonhandler.New(staffService, log),
		Members:   membershandler.New(membersService, financeService, log),
		Couples:   coupleshandler.New(couplesService, log),
		Programs:  programshandler.New(programsService, cfg.Agenda.HorizonDays, log),
		Finance:   financehandler.New(financeService, log),
		Access:    accesshandler.New(accessService, log),
		Analytics: analyticshandler.New(analyticsService, log),
	}

	if cfg.Agenda.Enabled {
		application.agenda = scheduler.NewAgendaScheduler(programsService, log, cfg.Agenda.CronSpec, cfg.Agenda.HorizonDays, cfg.Location)
		ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
		// A failed warmup is logged by the scheduler; the next tick retries.
		_ = application.agenda.RunOnce(ctx)
		cancel()
		if err := application.agenda.Start(); err != nil {
			_ = application.Close()
			return nil, err
		}
	}

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, staffService, log)

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.agenda != nil {
		a.agenda.Stop()
		a.agenda = nil
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
