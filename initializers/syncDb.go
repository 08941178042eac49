package initializers

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type migrator interface {
	Migrate() error
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// SyncDatabase migrates SQL tables or creates Mongo indexes, whichever the
// store supports.
func SyncDatabase(ctx context.Context, db any, log *zap.Logger) error {
	switch s := db.(type) {
	case migrator:
		if err := s.Migrate(); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	case indexer:
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	default:
		return fmt.Errorf("store %T cannot be synced", db)
	}
	log.Info("database synced successfully")
	return nil
}
