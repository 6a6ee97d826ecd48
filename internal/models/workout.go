package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	MinFatigue = 1
	MaxFatigue = 10
)

type Workout struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Calories    *int       `json:"calories,omitempty"`
	Fatigue     int        `gorm:"not null" json:"fatigue"` // 1..10
	PhotoPath   *string    `gorm:"type:varchar(500)" json:"photo_path,omitempty"`
	VideoURL    *string    `gorm:"type:varchar(500)" json:"video_url,omitempty"`
	Comment     *string    `gorm:"type:text" json:"comment,omitempty"`
	PerformedAt *time.Time `gorm:"index" json:"performed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

// ValidVideoURL reports whether link is an http(s) address.
func ValidVideoURL(link string) bool {
	link = strings.ToLower(link)
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// BeforeSave guards the columns the database cannot check on its own.
func (w *Workout) BeforeSave(tx *gorm.DB) error {
	w.Title = strings.TrimSpace(w.Title)
	if w.Title == "" {
		return gorm.ErrInvalidData
	}
	if w.Fatigue < MinFatigue || w.Fatigue > MaxFatigue {
		return gorm.ErrInvalidData
	}
	if w.VideoURL != nil && !ValidVideoURL(*w.VideoURL) {
		return gorm.ErrInvalidData
	}
	return nil
}

// FeedEntry is a workout joined with its author for the activity feed.
type FeedEntry struct {
	ID               uint       `json:"id"`
	UserID           uint       `json:"user_id"`
	Title            string     `json:"title"`
	Calories         *int       `json:"calories,omitempty"`
	Fatigue          int        `json:"fatigue"`
	PhotoPath        *string    `json:"-"`
	VideoURL         *string    `json:"video_url,omitempty"`
	Comment          *string    `json:"comment,omitempty"`
	PerformedAt      *time.Time `json:"performed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	AuthorNick       string     `json:"author_nick"`
	AuthorAvatarPath *string    `json:"-"`
	AuthorAvatarURL  string     `gorm:"-" json:"author_avatar_url,omitempty"`
	PhotoURL         string     `gorm:"-" json:"photo_url,omitempty"`
	VideoDomain      string     `gorm:"-" json:"video_domain,omitempty"`
}

// When returns the moment the workout happened.
func (e *FeedEntry) When() time.Time {
	if e.PerformedAt != nil {
		return *e.PerformedAt
	}
	return e.CreatedAt
}

// ActivityCount is one row of the activity report.
type ActivityCount struct {
	UserID   uint   `json:"user_id"`
	Nick     string `json:"nick"`
	Workouts int64  `gorm:"column:workout_count" json:"workouts"`
}
