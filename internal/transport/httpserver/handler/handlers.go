package handler

import (
	"parish-app-go/internal/transport/httpserver/handler/access"
	"parish-app-go/internal/transport/httpserver/handler/analytics"
	"parish-app-go/internal/transport/httpserver/handler/common"
	"parish-app-go/internal/transport/httpserver/handler/couples"
	"parish-app-go/internal/transport/httpserver/handler/finance"
	"parish-app-go/internal/transport/httpserver/handler/members"
	"parish-app-go/internal/transport/httpserver/handler/programs"
)

type Handlers struct {
	Common    *common.Handlers
	Members   *members.Handlers
	Couples   *couples.Handlers
	Programs  *programs.Handlers
	Finance   *finance.Handlers
	Access    *access.Handlers
	Analytics *analytics.Handlers
}
