package main

import (
	"go.uber.org/fx"

	"zubaschool-backoffice/internal/server"
	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/db"
	"zubaschool-backoffice/pkg/gen"
	"zubaschool-backoffice/pkg/health"
	"zubaschool-backoffice/pkg/logger"
	"zubaschool-backoffice/pkg/mongodb"
	"zubaschool-backoffice/services/audit"
	"zubaschool-backoffice/services/identity"
	"zubaschool-backoffice/services/plan"
	"zubaschool-backoffice/services/tenant"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		gen.Module,
		db.Module,
		mongodb.Module,
		health.Module,
		identity.Module,
		audit.Module,
		plan.Module,
		tenant.Module,
		server.Module,
	)

	app.Run()
}
