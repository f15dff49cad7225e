package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"event-storefront/internal/config"
	"event-storefront/internal/database"
)

func main() {
	var (
		statusFlag = flag.Bool("status", false, "Show migration status")
		upFlag     = flag.Bool("up", false, "Run pending migrations")
		pathFlag   = flag.String("db", "", "SQLite file (defaults to SQLITE_PATH)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	path := cfg.Storage.SQLitePath
	if *pathFlag != "" {
		path = *pathFlag
	}

	db, err := database.NewConnection(database.Config{Path: path}, cfg.NewLogger())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch {
	case *statusFlag:
		states, err := db.MigrationStatus()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("Migration Status (%s):\n", path)
		fmt.Println("================")
		for _, s := range states {
			status := "PENDING"
			if s.Applied {
				status = "APPLIED"
			}
			fmt.Printf("%d: %s [%s]\n", s.Version, s.Name, status)
		}
	case *upFlag:
		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("All migrations completed successfully!")
	default:
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/migrate -status   # Show migration status")
		fmt.Println("  go run ./cmd/migrate -up       # Run pending migrations")
		os.Exit(1)
	}
}
