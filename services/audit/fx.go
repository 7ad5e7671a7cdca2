package audit

import "go.uber.org/fx"

var Module = fx.Module("audit.module",
	fx.Provide(
		NewMongoStore,
		func(s *MongoStore) Store { return s },
	),
)
