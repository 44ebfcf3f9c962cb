// Command migrate applies or rolls back the database schema.
//
// Usage:
//
//	migrate -config config.yaml        # apply pending migrations
//	migrate -config config.yaml -down  # roll everything back
package main

import (
	"flag"
	"log"

	"buildbid/internal/config"
	pg "buildbid/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if *down {
		if err := pg.MigrateDown(cfg.Database.URL, cfg.Database.MigrationsURL); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Println("schema rolled back")
		return
	}
	if err := pg.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsURL); err != nil {
		log.Fatalf("migrate up: %v", err)
	}
	log.Println("schema up to date")
}
