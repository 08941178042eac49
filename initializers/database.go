package initializers

import (
	"context"

	"github.com/Kariqs/storefront-api/store"
	"github.com/Kariqs/storefront-api/store/gormstore"
	"github.com/Kariqs/storefront-api/store/memstore"
	"github.com/Kariqs/storefront-api/store/mongostore"
	"go.uber.org/zap"
)

// ConnectToDB opens the store selected by cfg.DBDriver and makes sure its
// schema or indexes exist.
func ConnectToDB(ctx context.Context, cfg Config, log *zap.Logger) (store.Stores, error) {
	switch cfg.DBDriver {
	case "mysql", "postgres":
		db, err := gormstore.Open(cfg.DBDriver, cfg.DatabaseURL, nil)
		if err != nil {
			return store.Stores{}, err
		}
		s := gormstore.New(db)
		if err := SyncDatabase(ctx, s, log); err != nil {
			return store.Stores{}, err
		}
		log.Info("connected to database", zap.String("driver", cfg.DBDriver))
		return s.Stores(), nil

	case "mongo":
		s, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return store.Stores{}, err
		}
		if err := SyncDatabase(ctx, s, log); err != nil {
			return store.Stores{}, err
		}
		log.Info("connected to database", zap.String("driver", "mongo"), zap.String("database", cfg.MongoDatabase))
		return s.Stores(), nil

	default:
		log.Warn("using in-memory store; data is lost on restart")
		return memstore.New().Stores(), nil
	}
}
