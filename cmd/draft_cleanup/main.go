// Command draft_cleanup prunes editor drafts that were not touched within
// DRAFT_TTL. Meant to run from cron.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"hourlystay/internal/config"
	"hourlystay/internal/database"
	"hourlystay/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-cfg.DraftTTL)
	n, err := store.NewDraftRepository(db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("level=info msg=\"stale drafts pruned\" count=%d cutoff=%s", n, cutoff.Format(time.RFC3339))
}
