package services

import (
	"context"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/security"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/utils"
)

// WorkoutInput carries the user-editable fields of a workout.
type WorkoutInput struct {
	Title       string
	Calories    *int
	Fatigue     int
	PhotoPath   *string
	VideoURL    string
	Comment     string
	PerformedAt *time.Time
}

type WorkoutService struct {
	workouts  *repositories.WorkoutRepository
	images    *ImageService
	feedLimit int
}

func NewWorkoutService(workouts *repositories.WorkoutRepository, images *ImageService, feedLimit int) *WorkoutService {
	return &WorkoutService{
		workouts:  workouts,
		images:    images,
		feedLimit: feedLimit,
	}
}

func (in *WorkoutInput) validate() error {
	in.Title = security.SanitizeText(in.Title)
	if in.Title == "" {
		return errors.New(errors.ErrCodeValidation, "Title is required.")
	}
	if in.Fatigue < models.MinFatigue || in.Fatigue > models.MaxFatigue {
		return errors.New(errors.ErrCodeValidation, "Fatigue must be between 1 and 10.")
	}
	if in.Calories != nil && *in.Calories < 0 {
		return errors.New(errors.ErrCodeValidation, "Calories cannot be negative.")
	}
	if v := utils.OptionalString(in.VideoURL); v != nil && !models.ValidVideoURL(*v) {
		return errors.New(errors.ErrCodeValidation, "Video link must start with http:// or https://.")
	}
	return nil
}

func (in *WorkoutInput) apply(w *models.Workout) {
	w.Title = in.Title
	w.Calories = in.Calories
	w.Fatigue = in.Fatigue
	w.VideoURL = utils.OptionalString(in.VideoURL)
	w.Comment = utils.OptionalString(security.SanitizeText(in.Comment))
	w.PerformedAt = in.PerformedAt
	if in.PhotoPath != nil {
		w.PhotoPath = in.PhotoPath
	}
}

// Create logs a new workout for userID
func (s *WorkoutService) Create(ctx context.Context, userID uint, in WorkoutInput) (*models.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	w := &models.Workout{UserID: userID}
	in.apply(w)
	if err := s.workouts.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Get returns a workout owned by userID
func (s *WorkoutService) Get(ctx context.Context, userID, id uint) (*models.Workout, error) {
	return s.workouts.GetForOwner(ctx, id, userID)
}

// Update edits a workout owned by userID. A nil PhotoPath keeps the current photo.
func (s *WorkoutService) Update(ctx context.Context, userID, id uint, in WorkoutInput) (*models.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	w, err := s.workouts.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	in.apply(w)
	if err := s.workouts.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a workout owned by userID
func (s *WorkoutService) Delete(ctx context.Context, userID, id uint) error {
	return s.workouts.Delete(ctx, id, userID)
}

// ListMine returns the user's own workouts, most recent first
func (s *WorkoutService) ListMine(ctx context.Context, userID uint) ([]models.Workout, error) {
	return s.workouts.ListForUser(ctx, userID, s.feedLimit)
}

// Feed returns the user's and friends' workouts with signed image links attached.
func (s *WorkoutService) Feed(ctx context.Context, userID uint) ([]models.FeedEntry, error) {
	entries, err := s.workouts.Feed(ctx, userID, s.feedLimit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].AuthorAvatarURL = s.images.SignedURLPtr(ctx, entries[i].AuthorAvatarPath)
		entries[i].PhotoURL = s.images.SignedURLPtr(ctx, entries[i].PhotoPath)
		if entries[i].VideoURL != nil {
			entries[i].VideoDomain = utils.Domain(*entries[i].VideoURL)
		}
	}
	return entries, nil
}
