// Package main provides moderator management utilities for Astuce+.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"astuceplus/internal/config"
	"astuceplus/internal/database"
	"astuceplus/internal/models"

	"gorm.io/gorm"
)

// ModeratorSetup provides a utility to promote users to moderator or list moderators
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>      - Promote user to moderator")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>       - Demote moderator back to member")
		fmt.Println("  go run ./cmd/admin/main.go expert <user_id>       - Mark user as expert")
		fmt.Println("  go run ./cmd/admin/main.go list-moderators        - List all moderators")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleModerateur)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go demote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleInscrit)

	case "expert":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go expert <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleExpert)

	case "list-moderators":
		listModerators(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update user role: %v", err)
	}

	fmt.Printf("✅ Successfully set %s (ID: %d) to role %s\n", user.Username, user.ID, role)
}

func listModerators(db *gorm.DB) {
	var moderators []models.User
	err := db.Where("role = ? OR is_staff = ?", models.RoleModerateur, true).Find(&moderators).Error
	if err != nil {
		log.Fatalf("Failed to fetch moderators: %v", err)
	}

	if len(moderators) == 0 {
		fmt.Println("No moderators found in the system")
		return
	}

	fmt.Println("\n📋 Current Moderators:")
	fmt.Println("─────────────────────────────────────")
	for _, mod := range moderators {
		staff := ""
		if mod.IsStaff {
			staff = " (staff)"
		}
		fmt.Printf("ID: %d | Username: %s | Email: %s%s\n", mod.ID, mod.Username, mod.Email, staff)
	}
	fmt.Println("─────────────────────────────────────")
}
