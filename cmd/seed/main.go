package main

import (
	"flag"
	"log"

	"mathquest/internal/config"
	"mathquest/internal/database"
	"mathquest/internal/service"
)

func main() {
	skipMigrations := flag.Bool("skip-migrations", false, "Do not run migrations before seeding")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if !*skipMigrations {
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	if err := service.NewSeedService(db).EnsureDemoData(); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	log.Println("Seeding complete")
}
