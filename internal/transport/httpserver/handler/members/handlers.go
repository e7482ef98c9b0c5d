package members

import (
	financedomain "parish-app-go/internal/domain/finance"
	membersdomain "parish-app-go/internal/domain/members"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Members *membersdomain.Service
	Finance *financedomain.Service
	log     logger.Logger
}

func New(members *membersdomain.Service, finance *financedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Members: members,
		Finance: finance,
		log:     log,
	}
}
