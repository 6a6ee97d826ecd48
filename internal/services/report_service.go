package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mroshb/sweatcheck/internal/models"
	"github.com/mroshb/sweatcheck/internal/repositories"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Activity"

// ReportService summarizes recent activity across a user's circle.
type ReportService struct {
	workouts *repositories.WorkoutRepository
	window   time.Duration
	now      func() time.Time
}

func NewReportService(workouts *repositories.WorkoutRepository, window time.Duration) *ReportService {
	return &ReportService{
		workouts: workouts,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Window returns the report period
func (s *ReportService) Window() time.Duration {
	return s.window
}

// Last30Days counts workouts per person over the report window, busiest first
// and by nick on ties.
func (s *ReportService) Last30Days(ctx context.Context, userID uint) ([]models.ActivityCount, error) {
	return s.workouts.ActivityCounts(ctx, userID, s.now().Add(-s.window))
}

// ExportXLSX writes the activity report as a spreadsheet to w.
func (s *ReportService) ExportXLSX(ctx context.Context, userID uint, w io.Writer) error {
	rows, err := s.Last30Days(ctx, userID)
	if err != nil {
		return err
	}

	f, err := buildActivityWorkbook(rows, s.now(), s.window)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to build report")
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to write report")
	}
	return nil
}

func buildActivityWorkbook(rows []models.ActivityCount, generated time.Time, window time.Duration) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, err
	}

	days := int(window.Hours() / 24)
	title := fmt.Sprintf("Workouts in the last %d days (generated %s)", days, generated.Format(TimestampLayout))
	cells := [][]interface{}{
		{title},
		{"Nick", "Workouts"},
	}
	for _, r := range rows {
		cells = append(cells, []interface{}{r.Nick, r.Workouts})
	}

	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(reportSheet, "A", "A", 24); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
