package finance

import (
	financedomain "parish-app-go/internal/domain/finance"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Finance *financedomain.Service
	log     logger.Logger
}

func New(finance *financedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Finance: finance,
		log:     log,
	}
}
