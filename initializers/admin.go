package initializers

import (
	"context"

	"github.com/Kariqs/storefront-api/services"
	"go.uber.org/zap"
)

// SeedAdmin creates the configured admin account on first start.
func SeedAdmin(ctx context.Context, cfg Config, auth *services.AuthService, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Debug("admin seeding skipped; ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}
	_, err := auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	return err
}
