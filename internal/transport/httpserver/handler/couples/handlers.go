package couples

import (
	couplesdomain "parish-app-go/internal/domain/couples"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Couples *couplesdomain.Service
	log     logger.Logger
}

func New(couples *couplesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Couples: couples,
		log:     log,
	}
}
