package migrate

import (
	"context"
	"fmt"

	"github.com/happyshopdev/happyshop-backend/pkg/config"
	"github.com/happyshopdev/happyshop-backend/pkg/db"
	"github.com/happyshopdev/happyshop-backend/pkg/db/models"
	"github.com/happyshopdev/happyshop-backend/pkg/logger"
)

// MaybeRunDev auto-migrates the schema when running in dev. Production
// deploys manage the schema out of band.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || !cfg.App.IsDev() {
		return nil
	}
	if client == nil {
		return fmt.Errorf("db client required for dev migrations")
	}

	err := client.DB().WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.OrderRecord{},
		&models.OrderLineItem{},
		&models.ShortageNotice{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrating dev schema: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "dev schema migrated")
	}
	return nil
}
