package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/astralis-app/astralis/internal/database"
	"github.com/astralis-app/astralis/internal/database/sqlite"
)

// Development utility: wipes the shared store and recreates the schema so the
// app starts from a fresh first-launch state.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		storePath = "astralis.db"
	}

	log.Printf("Removing store at %s...\n", storePath)
	for _, path := range []string{storePath, storePath + "-wal", storePath + "-shm"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove %s: %v", path, err)
		}
	}

	db, err := database.Open(context.Background(), storePath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	log.Println("Running migrations...")
	if err := sqlite.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate store: %v", err)
	}

	log.Println("\n✅ Store reset complete!")
}
