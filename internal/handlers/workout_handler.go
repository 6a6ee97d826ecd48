package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/errors"
)

// performedAtLayouts are the accepted forms of performed_at, most specific first.
var performedAtLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// workoutForm binds JSON bodies and multipart forms alike. A multipart form may
// carry a "photo" file.
type workoutForm struct {
	Title       string `json:"title" form:"title" binding:"required"`
	Calories    *int   `json:"calories" form:"calories"`
	Fatigue     int    `json:"fatigue" form:"fatigue" binding:"required"`
	VideoURL    string `json:"video_url" form:"video_url"`
	Comment     string `json:"comment" form:"comment"`
	PerformedAt string `json:"performed_at" form:"performed_at"`
}

type workoutResponse struct {
	*models.Workout
	PhotoURL string `json:"photo_url,omitempty"`
}

func parsePerformedAt(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range performedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errors.New(errors.ErrCodeValidation, "Workout date is not a valid date.")
}

// bindWorkout reads the form and uploads the optional photo.
func (h *HandlerManager) bindWorkout(c *gin.Context, userID uint) (services.WorkoutInput, bool) {
	var form workoutForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return services.WorkoutInput{}, false
	}

	performedAt, err := parsePerformedAt(form.PerformedAt)
	if err != nil {
		respondError(c, err)
		return services.WorkoutInput{}, false
	}

	in := services.WorkoutInput{
		Title:       form.Title,
		Calories:    form.Calories,
		Fatigue:     form.Fatigue,
		VideoURL:    form.VideoURL,
		Comment:     form.Comment,
		PerformedAt: performedAt,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		key, ok := h.saveUploadedImage(c, "photo", userID, services.ImageKindWorkout, false)
		if !ok {
			return services.WorkoutInput{}, false
		}
		if key != "" {
			in.PhotoPath = &key
		}
	}
	return in, true
}

func (h *HandlerManager) workoutResponse(c *gin.Context, w *models.Workout) workoutResponse {
	return workoutResponse{
		Workout:  w,
		PhotoURL: h.Images.SignedURLPtr(c.Request.Context(), w.PhotoPath),
	}
}

func (h *HandlerManager) ListWorkouts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	workouts, err := h.Workouts.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]workoutResponse, 0, len(workouts))
	for i := range workouts {
		out = append(out, h.workoutResponse(c, &workouts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"workouts": out})
}

func (h *HandlerManager) CreateWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	in, ok := h.bindWorkout(c, userID)
	if !ok {
		return
	}

	w, err := h.Workouts.Create(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.workoutResponse(c, w))
}

func (h *HandlerManager) GetWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	w, err := h.Workouts.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.workoutResponse(c, w))
}

// UpdateWorkout replaces the editable fields. Without a new photo the old one stays.
func (h *HandlerManager) UpdateWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bindWorkout(c, userID)
	if !ok {
		return
	}

	w, err := h.Workouts.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.workoutResponse(c, w))
}

func (h *HandlerManager) DeleteWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Workouts.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.Outcome{OK: true, Message: "Workout deleted."})
}

// Feed lists the caller's and friends' workouts, newest first
func (h *HandlerManager) Feed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := h.Workouts.Feed(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feed": entries})
}
