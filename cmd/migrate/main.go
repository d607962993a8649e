// Command migrate applies the schema to the configured database. Production
// deployments run this explicitly; Connect skips AutoMigrate there.
package main

import (
	"fmt"
	"log"

	"perch/internal/config"
	"perch/internal/database"
	"perch/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// The achievement catalog is reference data the award engine needs in
	// every environment, so it ships with the schema.
	if err := seed.Birds(db); err != nil {
		return fmt.Errorf("seed bird catalog: %w", err)
	}

	log.Println("schema and bird catalog applied")
	return nil
}
