package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
)

// dbtool initializes the database schema and loads the POI catalog from a
// JSON seed file. It targets Postgres when DATABASE_URL is set, otherwise
// the local SQLite file.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/pois.json")

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err := db.Open("pgx", databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := initAndSeedPostgres(conn, seedPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	conn, err := db.Open("sqlite", dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeedSqlite(conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeedSqlite(conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}

func initAndSeedPostgres(conn *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	pois, err := repositories.LoadSeedFile(seedPath)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	repo := repositories.NewPostgresPOIRepository(conn)
	if err := repo.UpsertPOIs(context.Background(), pois); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
