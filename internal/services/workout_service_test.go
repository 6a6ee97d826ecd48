package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/internal/testutil"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkoutService_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWorkoutService(repositories.NewWorkoutRepository(db), nil, 200)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "alice", "a@example.com")

	negative := -5
	tests := []struct {
		name    string
		in      WorkoutInput
		wantErr bool
	}{
		{name: "Valid", in: WorkoutInput{Title: "Run", Fatigue: 4}, wantErr: false},
		{name: "Valid with video", in: WorkoutInput{Title: "Swim", Fatigue: 4, VideoURL: "https://v.test/1"}, wantErr: false},
		{name: "Markup-only title", in: WorkoutInput{Title: "<b></b>", Fatigue: 4}, wantErr: true},
		{name: "Fatigue zero", in: WorkoutInput{Title: "Run", Fatigue: 0}, wantErr: true},
		{name: "Fatigue eleven", in: WorkoutInput{Title: "Run", Fatigue: 11}, wantErr: true},
		{name: "Negative calories", in: WorkoutInput{Title: "Run", Fatigue: 4, Calories: &negative}, wantErr: true},
		{name: "Bad video scheme", in: WorkoutInput{Title: "Run", Fatigue: 4, VideoURL: "javascript:alert(1)"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, u.ID, tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWorkoutService_UpdateKeepsPhoto(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWorkoutService(repositories.NewWorkoutRepository(db), nil, 200)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "alice", "a@example.com")
	other := testutil.CreateUser(t, db, "bob", "b@example.com")

	photo := "1/workout/abc"
	w, err := svc.Create(ctx, owner.ID, WorkoutInput{Title: "Run", Fatigue: 3, PhotoPath: &photo, Comment: "  "})
	require.NoError(t, err)
	assert.Nil(t, w.Comment)

	_, err = svc.Update(ctx, other.ID, w.ID, WorkoutInput{Title: "Hijack", Fatigue: 3})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	updated, err := svc.Update(ctx, owner.ID, w.ID, WorkoutInput{Title: "Tempo run", Fatigue: 7, Comment: "felt good"})
	require.NoError(t, err)
	assert.Equal(t, "Tempo run", updated.Title)
	require.NotNil(t, updated.PhotoPath)
	assert.Equal(t, photo, *updated.PhotoPath)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "felt good", *updated.Comment)

	assert.True(t, errors.Is(svc.Delete(ctx, other.ID, w.ID), errors.ErrCodeNotFound))
	require.NoError(t, svc.Delete(ctx, owner.ID, w.ID))
}

func TestWorkoutService_FeedSignsImages(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	images := NewImageService(newMemoryStore(), nil, time.Minute)
	svc := NewWorkoutService(repositories.NewWorkoutRepository(db), images, 200)
	users := repositories.NewUserRepository(db)

	u := testutil.CreateUser(t, db, "alice", "a@example.com")
	require.NoError(t, users.UpdateAvatar(ctx, u.ID, "1/avatar/face"))

	photo := "1/workout/pic"
	_, err := svc.Create(ctx, u.ID, WorkoutInput{Title: "Run", Fatigue: 3, PhotoPath: &photo})
	require.NoError(t, err)
	_, err = svc.Create(ctx, u.ID, WorkoutInput{Title: "Walk", Fatigue: 1})
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, e := range feed {
		assert.Contains(t, e.AuthorAvatarURL, "1/avatar/face")
		if e.Title == "Run" {
			assert.Contains(t, e.PhotoURL, "1/workout/pic")
		} else {
			assert.Empty(t, e.PhotoURL)
		}
	}
}

func TestReportService_ExportXLSX(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	workouts := repositories.NewWorkoutRepository(db)
	friends := repositories.NewFriendRepository(db)
	svc := NewReportService(workouts, 30*24*time.Hour)

	me := testutil.CreateUser(t, db, "me", "me@example.com")
	pal := testutil.CreateUser(t, db, "pal", "pal@example.com")
	require.NoError(t, friends.AddMutual(ctx, me.ID, pal.ID))

	now := time.Now().UTC()
	for i, owner := range []uint{pal.ID, pal.ID, me.ID} {
		at := now.Add(-time.Duration(i+1) * time.Hour)
		require.NoError(t, workouts.Create(ctx, &models.Workout{UserID: owner, Title: "x", Fatigue: 2, PerformedAt: &at}))
	}

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(ctx, me.ID, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Contains(t, rows[0][0], "30 days")
	assert.Equal(t, []string{"Nick", "Workouts"}, rows[1])
	assert.Equal(t, []string{"pal", "2"}, rows[2])
	assert.Equal(t, []string{"me", "1"}, rows[3])
}
