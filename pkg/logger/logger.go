package logger

import (
	"zubaschool-backoffice/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Module("zap",
	fx.Provide(
		New,
	),
	fx.Invoke(ReplaceGlobals),
)

type ConfigParams struct {
	fx.In
	Cfg *config.Config
}

func New(p ConfigParams) *zap.Logger {
	log := zap.Must(zap.NewDevelopment())
	if p.Cfg.AppEnv == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		log = zap.Must(config.Build())
	}

	return log.With(
		zap.String("app_name", p.Cfg.AppName),
		zap.String("app_env", p.Cfg.AppEnv),
	)
}

func ReplaceGlobals(log *zap.Logger) {
	zap.ReplaceGlobals(log)
}
