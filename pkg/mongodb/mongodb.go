package mongodb

import (
	"context"

	"zubaschool-backoffice/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("mongodb",
	fx.Provide(
		NewClient,
		NewDatabase,
	),
	fx.Invoke(RegisterLifecycle),
)

func NewClient(cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		zap.L().Error("[Mongo] failed to build client", zap.Error(err))
		return nil, err
	}
	return client, nil
}

func NewDatabase(cfg *config.Config, client *mongo.Client) *mongo.Database {
	return client.Database(cfg.MongoDB.Database)
}

type lifecycleParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Client    *mongo.Client
	Config    *config.Config
}

// RegisterLifecycle pings the deployment at startup and disconnects at
// shutdown so the client never outlives the process scope.
func RegisterLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Client.Ping(ctx, readpref.Primary()); err != nil {
				zap.L().Error("[Mongo] ping failed", zap.Error(err))
				return err
			}
			zap.L().Info("[Mongo] connected",
				zap.String("database", p.Config.MongoDB.Database))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			zap.L().Info("[Mongo] disconnecting...")
			return p.Client.Disconnect(ctx)
		},
	})
}
