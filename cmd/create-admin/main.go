package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"salchimonster-backend/internal/auth"
	"salchimonster-backend/internal/config"
	"salchimonster-backend/internal/database"
	"salchimonster-backend/internal/models"

	"golang.org/x/term"
)

func main() {
	fmt.Println("Creating Admin User")
	fmt.Println("===================")

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userQueries := database.NewUserQueries(db)
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter admin email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal("Failed to read email:", err)
	}
	email = strings.TrimSpace(email)

	if email == "" {
		log.Fatal("Email cannot be empty")
	}

	// Check if user already exists
	existingUser, err := userQueries.GetUserByEmail(email)
	if err == nil && existingUser != nil {
		fmt.Printf("User with email %s already exists.\n", email)
		fmt.Print("Do you want to update this user to admin role? (y/N): ")
		confirm, err := reader.ReadString('\n')
		if err != nil {
			log.Fatal("Failed to read confirmation:", err)
		}
		confirm = strings.TrimSpace(strings.ToLower(confirm))

		if confirm != "y" && confirm != "yes" {
			fmt.Println("Operation cancelled.")
			return
		}

		if err := userQueries.UpdateUserRole(existingUser.ID, models.RoleAdmin); err != nil {
			log.Fatal("Failed to update user role:", err)
		}
		fmt.Printf("Successfully updated user %s to admin role.\n", email)
		return
	}

	fmt.Print("Enter admin password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Failed to read password:", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if len(password) < 6 {
		log.Fatal("Password must be at least 6 characters long")
	}

	fmt.Print("Confirm admin password: ")
	confirmPasswordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Failed to read password confirmation:", err)
	}
	confirmPassword := string(confirmPasswordBytes)
	fmt.Println()

	if password != confirmPassword {
		log.Fatal("Passwords do not match")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
	}

	if err := userQueries.CreateUser(user); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Successfully created admin user %s (id %d).\n", user.Email, user.ID)
}
