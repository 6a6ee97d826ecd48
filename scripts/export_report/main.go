package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/database"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/services"
)

// Writes a user's activity report to an .xlsx file.
//
//	export_report <email> [output.xlsx]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: export_report <email> [output.xlsx]")
		os.Exit(2)
	}
	email := os.Args[1]
	output := fmt.Sprintf("activity-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	user, err := repositories.NewUserRepository(db).ResolveByEmail(ctx, email)
	if err != nil {
		log.Fatalf("Failed to find %s: %v", email, err)
	}

	f, err := os.Create(output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", output, err)
	}
	defer f.Close()

	reports := services.NewReportService(repositories.NewWorkoutRepository(db), cfg.GetReportWindow())
	if err := reports.ExportXLSX(ctx, user.ID, f); err != nil {
		log.Fatalf("Failed to export report: %v", err)
	}

	fmt.Printf("✅ Report for %s written to %s\n", user.Nick, output)
}
