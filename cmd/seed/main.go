// Command main runs the database seeder for Astuce+.
package main

import (
	"flag"
	"log"

	"astuceplus/internal/config"
	"astuceplus/internal/database"
	"astuceplus/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of member accounts to create")
	numTips := flag.Int("tips", 60, "Number of tips to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Path to a YAML preset with categories, terms, and curated tips")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing to the database")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d tips, clean=%v\n", *numUsers, *numTips, *shouldClean)
	if *preset != "" {
		log.Printf("Using preset file: %s\n", *preset)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	_, err = database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	err = seed.Seed(database.DB, seed.Options{
		NumUsers:    *numUsers,
		NumTips:     *numTips,
		ShouldClean: *shouldClean,
		PresetPath:  *preset,
		DryRun:      *dryRun,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
