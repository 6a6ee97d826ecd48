package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/database"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

// Runs the schema migration and the indexes gorm tags cannot express.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("🚀 Migrating tables...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}
	fmt.Println("✅ Tables ready")

	fmt.Println("📊 Creating indexes...")
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE is_read = false",
		"CREATE INDEX IF NOT EXISTS idx_friend_requests_pending_addressee ON friend_requests(addressee_id, created_at DESC) WHERE status = 'pending'",
		"CREATE INDEX IF NOT EXISTS idx_workouts_user_when ON workouts(user_id, (COALESCE(performed_at, created_at)) DESC)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("Failed to create index: %v", err)
		}
	}
	fmt.Println("✅ Indexes created")

	if cfg.AdminEmail != "" {
		if err := database.PromoteAdmin(db, cfg.AdminEmail); err != nil {
			log.Fatalf("Failed to promote %s: %v", cfg.AdminEmail, err)
		}
		fmt.Printf("👑 %s is an admin\n", cfg.AdminEmail)
	}

	fmt.Println("✅ Migration completed successfully!")
}
