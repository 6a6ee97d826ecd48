package models

import "testing"

func TestWorkout_BeforeSave(t *testing.T) {
	video := func(s string) *string { return &s }

	tests := []struct {
		name    string
		workout Workout
		wantErr bool
	}{
		{name: "Valid", workout: Workout{Title: "Run", Fatigue: 5}, wantErr: false},
		{name: "Blank title", workout: Workout{Title: "   ", Fatigue: 5}, wantErr: true},
		{name: "Fatigue too low", workout: Workout{Title: "Run", Fatigue: 0}, wantErr: true},
		{name: "Fatigue too high", workout: Workout{Title: "Run", Fatigue: 11}, wantErr: true},
		{name: "Fatigue bounds", workout: Workout{Title: "Run", Fatigue: 10}, wantErr: false},
		{name: "HTTPS video", workout: Workout{Title: "Run", Fatigue: 3, VideoURL: video("https://youtu.be/x")}, wantErr: false},
		{name: "FTP video", workout: Workout{Title: "Run", Fatigue: 3, VideoURL: video("ftp://host/x")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.workout
			err := w.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
