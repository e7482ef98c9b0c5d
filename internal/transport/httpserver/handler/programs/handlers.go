package programs

import (
	programsdomain "parish-app-go/internal/domain/programs"
	"parish-app-go/pkg/logger"
)

const maxAgendaHorizonDays = 90

type Handlers struct {
	Programs      *programsdomain.Service
	agendaHorizon int
	log           logger.Logger
}

func New(programs *programsdomain.Service, agendaHorizon int, log logger.Logger) *Handlers {
	if agendaHorizon <= 0 {
		agendaHorizon = 7
	}
	return &Handlers{
		Programs:      programs,
		agendaHorizon: agendaHorizon,
		log:           log,
	}
}
