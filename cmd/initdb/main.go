package main

import (
	"log"

	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/pkg/database"

	"github.com/joho/godotenv"
)

// Creates the schema and seed data without starting the API server. Useful
// for provisioning a fresh database ahead of first boot.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedLocations(db); err != nil {
		log.Fatalf("Failed to seed locations: %v", err)
	}
	if err := repository.NewPrivilegeRepo(db).SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed privileges: %v", err)
	}
	if err := repository.NewRoleRepo(db).SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}

	log.Println("Database initialized")
}
