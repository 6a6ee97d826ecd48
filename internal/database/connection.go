package database

import (
	"fmt"
	"time"

	"github.com/mroshb/sweatcheck/internal/config"
	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Multi-statement writes open their own transactions explicitly
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.Notification{},
		&models.Workout{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Rows logged before performed_at existed fall back to their creation time
	if err := db.Model(&models.Workout{}).
		Where("performed_at IS NULL").
		UpdateColumn("performed_at", gorm.Expr("created_at")).Error; err != nil {
		return fmt.Errorf("performed_at backfill failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// PromoteAdmin grants the ADMIN role to the account registered under email.
// A missing account is not an error: the promotion is retried on every start.
func PromoteAdmin(db *gorm.DB, email string) error {
	if email == "" {
		return nil
	}

	result := db.Model(&models.User{}).
		Where("email = ? AND role <> ?", email, models.RoleAdmin).
		UpdateColumn("role", models.RoleAdmin)
	if result.Error != nil {
		return fmt.Errorf("failed to promote admin: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Promoted admin account", "email", email)
	}
	return nil
}
