package main

import (
	"flag"
	"log"

	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/service"
	"go-stonestock-ws/pkg/database"

	"github.com/joho/godotenv"
)

// Maintenance tool: resets a user's password straight in the database and
// invalidates any live session for that account.
func main() {
	username := flag.String("user", "", "username of the account to reset")
	newPassword := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *username == "" || *newPassword == "" {
		log.Fatal("Usage: reset-password -user <username> -password <new-password>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()

	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	authService := service.NewAuthService(userRepo, roleRepo, nil)

	if err := authService.ResetPassword(*username, *newPassword); err != nil {
		log.Fatalf("Failed to reset password: %v", err)
	}
	log.Printf("Password for %s has been reset", *username)
}
