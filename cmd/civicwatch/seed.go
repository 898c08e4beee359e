package main

import (
	"context"
	"fmt"

	"civicwatch/internal/db"
	"civicwatch/internal/seed"
	"civicwatch/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo reports",
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

		reportRepo := store.NewReportRepository(pool)

		logrus.Info("Seeding demo reports...")
		seeded, err := seed.Reports(ctx, reportRepo)
		if err != nil {
			return fmt.Errorf("failed to seed reports: %w", err)
		}

		pp.Println(seeded)
		logrus.WithField("count", len(seeded)).Info("Reports seeded successfully")

		return nil
	},
}
