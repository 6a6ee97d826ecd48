package main

import (
	"testing"
	"time"
)

func TestParseWorkoutRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		wantErr bool
	}{
		{name: "Full row", row: []string{"2025-03-01", "Run", "6", "420", "easy pace", "https://v.test/1"}, wantErr: false},
		{name: "Short row", row: []string{"", "Yoga", "2"}, wantErr: false},
		{name: "Bad date", row: []string{"01/03/2025", "Run", "6"}, wantErr: true},
		{name: "No title", row: []string{"2025-03-01", "", "6"}, wantErr: true},
		{name: "Bad fatigue", row: []string{"2025-03-01", "Run", "hard"}, wantErr: true},
		{name: "Bad calories", row: []string{"2025-03-01", "Run", "6", "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseWorkoutRow(tt.row)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseWorkoutRow() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	in, err := parseWorkoutRow([]string{"2025-03-01", " Run ", "6", "420", "easy", "https://v.test/1"})
	if err != nil {
		t.Fatal(err)
	}
	if in.Title != "Run" || in.Fatigue != 6 || in.Calories == nil || *in.Calories != 420 {
		t.Errorf("unexpected input %+v", in)
	}
	if in.PerformedAt == nil || !in.PerformedAt.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", in.PerformedAt)
	}
}
