package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"skillera/internal/config"
	"skillera/internal/database/migration"
	dbpostgres "skillera/internal/database/postgres"
	"skillera/internal/database/seeder"
	"skillera/migrations"
)

func main() {
	skipMigrations := flag.Bool("skip-migrations", false, "only run seeders")
	skipSeed := flag.Bool("skip-seed", false, "only run migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if !*skipMigrations {
		r := migration.Runner{FS: migrations.FS, Logger: logger}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if *skipSeed {
		return
	}

	seeders := seeder.Defaults()
	if err := (seeder.Runner{Seeders: seeders}).Run(ctx, db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	logger.Printf("Seed completed | seeders=%d demo_password=%s", len(seeders), seeder.DemoPassword)
}
