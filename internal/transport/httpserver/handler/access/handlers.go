package access

import (
	accessdomain "parish-app-go/internal/domain/access"
	"parish-app-go/pkg/logger"
)

type Handlers struct {
	Access *accessdomain.Service
	log    logger.Logger
}

func New(access *accessdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Access: access,
		log:    log,
	}
}
