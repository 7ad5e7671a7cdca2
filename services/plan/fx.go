package plan

import (
	"zubaschool-backoffice/pkg/middleware"
	"zubaschool-backoffice/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func RegisterRoutes(r *gin.Engine, h *Handler, gate *identity.Gate) {
	h.Register(r, middleware.Auth(gate))
}

var Module = fx.Module("plan.module",
	fx.Provide(
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
)
