package health

import (
	"github.com/shandysiswandi/otpserver/internal/health/inbound"
	"github.com/shandysiswandi/otpserver/internal/pkg/router"
)

func New(r *router.Router) {
	inbound.RegisterHTTPEndpoint(r)
}
