package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/database"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/xuri/excelize/v2"
)

// Imports workouts for one user from the first sheet of a workbook.
// Columns: Date | Title | Fatigue | Calories | Comment | Video. The first row is a header.
//
//	import_workouts <email> <file.xlsx>
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: import_workouts <email> <file.xlsx>")
		os.Exit(2)
	}
	email, path := os.Args[1], os.Args[2]

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		log.Fatal("no sheets found")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	user, err := repositories.NewUserRepository(db).ResolveByEmail(ctx, email)
	if err != nil {
		log.Fatalf("Failed to find %s: %v", email, err)
	}

	workouts := services.NewWorkoutService(repositories.NewWorkoutRepository(db), nil, cfg.FeedLimit)

	imported := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}

		in, err := parseWorkoutRow(row)
		if err != nil {
			fmt.Printf("Skipping row %d: %v\n", i+1, err)
			continue
		}

		if _, err := workouts.Create(ctx, user.ID, in); err != nil {
			fmt.Printf("Error creating workout in row %d: %v\n", i+1, err)
			continue
		}
		imported++
	}

	fmt.Printf("Successfully imported %d workouts for %s.\n", imported, user.Nick)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseWorkoutRow reads one sheet row. Field rules are left to the workout service.
func parseWorkoutRow(row []string) (services.WorkoutInput, error) {
	var in services.WorkoutInput

	if date := cell(row, 0); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return in, fmt.Errorf("invalid date %q", date)
		}
		in.PerformedAt = &t
	}

	in.Title = cell(row, 1)
	if in.Title == "" {
		return in, fmt.Errorf("missing title")
	}

	fatigue, err := strconv.Atoi(cell(row, 2))
	if err != nil {
		return in, fmt.Errorf("invalid fatigue %q", cell(row, 2))
	}
	in.Fatigue = fatigue

	if raw := cell(row, 3); raw != "" {
		calories, err := strconv.Atoi(raw)
		if err != nil {
			return in, fmt.Errorf("invalid calories %q", raw)
		}
		in.Calories = &calories
	}

	in.Comment = cell(row, 4)
	in.VideoURL = cell(row, 5)
	return in, nil
}
