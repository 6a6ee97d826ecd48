package repositories

import (
	"context"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// Create stores a new workout
func (r *WorkoutRepository) Create(ctx context.Context, w *models.Workout) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error; err != nil {
		if err == gorm.ErrInvalidData {
			return errors.Wrap(err, errors.ErrCodeValidation, "invalid workout")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create workout")
	}
	return nil
}

// GetForOwner loads a workout owned by userID. Foreign workouts answer NotFound.
func (r *WorkoutRepository) GetForOwner(ctx context.Context, id, userID uint) (*models.Workout, error) {
	var w models.Workout
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&w)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "workout not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get workout")
	}
	return &w, nil
}

// Update saves every column of an existing workout
func (r *WorkoutRepository) Update(ctx context.Context, w *models.Workout) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(w).Error; err != nil {
		if err == gorm.ErrInvalidData {
			return errors.Wrap(err, errors.ErrCodeValidation, "invalid workout")
		}
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update workout")
	}
	return nil
}

// Delete removes a workout owned by userID
func (r *WorkoutRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Workout{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete workout")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "workout not found")
	}
	return nil
}

// ListForUser returns a user's own workouts, most recent first
func (r *WorkoutRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Workout, error) {
	var items []models.Workout
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("COALESCE(performed_at, created_at) DESC, id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list workouts")
	}
	return items, nil
}

// circleFilter matches workouts by the user or anyone the user lists as a friend.
const circleFilter = "(workouts.user_id = ? OR workouts.user_id IN (SELECT friend_id FROM friends WHERE user_id = ?))"

// Feed returns workouts of the user and their friends, most recent first.
func (r *WorkoutRepository) Feed(ctx context.Context, userID uint, limit int) ([]models.FeedEntry, error) {
	var entries []models.FeedEntry
	err := r.db.WithContext(ctx).Table("workouts").
		Select("workouts.id, workouts.user_id, workouts.title, workouts.calories, workouts.fatigue, " +
			"workouts.photo_path, workouts.video_url, workouts.comment, workouts.performed_at, workouts.created_at, " +
			"users.nick AS author_nick, users.avatar_path AS author_avatar_path").
		Joins("JOIN users ON users.id = workouts.user_id").
		Where(circleFilter, userID, userID).
		Order("COALESCE(workouts.performed_at, workouts.created_at) DESC, workouts.id DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to load feed")
	}
	return entries, nil
}

// ActivityCounts counts workouts per person in the user's circle since the given time.
// People without workouts in the window are not listed.
func (r *WorkoutRepository) ActivityCounts(ctx context.Context, userID uint, since time.Time) ([]models.ActivityCount, error) {
	var rows []models.ActivityCount
	err := r.db.WithContext(ctx).Table("workouts").
		Select("users.id AS user_id, users.nick AS nick, COUNT(workouts.id) AS workout_count").
		Joins("JOIN users ON users.id = workouts.user_id").
		Where(circleFilter, userID, userID).
		Where("COALESCE(workouts.performed_at, workouts.created_at) >= ?", since).
		Group("users.id, users.nick").
		Order("COUNT(workouts.id) DESC, users.nick ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count activity")
	}
	return rows, nil
}
