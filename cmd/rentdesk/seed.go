package main

import (
	"context"
	"fmt"

	"rentdesk/internal/db"
	"rentdesk/internal/seed"
	"rentdesk/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo data",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		if err := db.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}

		userRepo := store.NewUserRepository(pool)
		propertyRepo := store.NewPropertyRepository(pool)
		unitRepo := store.NewUnitRepository(pool)
		tenantRepo := store.NewTenantRepository(pool)

		logrus.Info("Seeding users...")
		if err := seed.SeedUsers(ctx, userRepo); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seeding properties and units...")
		if err := seed.SeedProperties(ctx, propertyRepo, unitRepo); err != nil {
			return fmt.Errorf("failed to seed properties: %w", err)
		}

		logrus.Info("Seeding demo lease...")
		if err := seed.SeedTenantProfile(ctx, tenantRepo); err != nil {
			return fmt.Errorf("failed to seed tenant profile: %w", err)
		}

		profile, err := tenantRepo.Tenant(ctx, seed.DemoTenantID)
		if err != nil {
			return fmt.Errorf("failed to read back demo tenant: %w", err)
		}
		pp.Println(profile)

		logrus.Info("Seed complete")

		return nil
	},
}
