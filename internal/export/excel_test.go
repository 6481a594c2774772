package export

import (
	"testing"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/shopspring/decimal"
)

func TestTimesheetWorkbook(t *testing.T) {
	out := time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC)
	summary := &service.TimesheetSummary{
		From:       "2026-03-01",
		To:         "2026-03-31",
		TotalHours: 8,
		HoursByCategory: map[string]float64{
			model.AllocationCategoryInstall: 8,
		},
		Entries: []model.TimeEntry{
			{
				Date:              "2026-03-02",
				EmployeeEmail:     "anna@x.se",
				ClockInTime:       time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
				ClockOutTime:      &out,
				TotalBreakMinutes: 30,
				TotalHours:        8,
				Status:            model.TimeEntryStatusCompleted,
			},
		},
	}

	f, err := Timesheet(summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Timesheet", "A1"); got != "Date" {
		t.Fatalf("A1 = %q", got)
	}
	if got, _ := f.GetCellValue("Timesheet", "B2"); got != "anna@x.se" {
		t.Fatalf("B2 = %q", got)
	}
	if got, _ := f.GetCellValue("Timesheet", "F2"); got != "8" {
		t.Fatalf("F2 = %q", got)
	}
	// Totals row sits one blank row below the entries.
	if got, _ := f.GetCellValue("Timesheet", "A4"); got != "Total" {
		t.Fatalf("A4 = %q", got)
	}
}

func TestJournalWorkbook(t *testing.T) {
	summary := &service.JournalSummary{
		From:         "2026-03-01",
		To:           "2026-03-31",
		TotalKm:      100,
		BusinessKm:   100,
		BusinessCost: decimal.NewFromInt(200),
		Entries: []model.DrivingJournalEntry{
			{
				RegistrationNumber: "ABC123",
				DriverName:         "Anna Lindqvist",
				StartTime:          time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
				EndTime:            time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC),
				DistanceKm:         100,
				TripType:           model.TripTypeBusiness,
				Purpose:            "kundbesök",
				Status:             model.TripStatusApproved,
			},
		},
	}

	f, err := Journal(summary)
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Körjournal", "B2"); got != "ABC123" {
		t.Fatalf("B2 = %q", got)
	}
	if got, _ := f.GetCellValue("Körjournal", "G2"); got != "Tjänst" {
		t.Fatalf("G2 = %q", got)
	}
	if got, _ := f.GetCellValue("Körjournal", "A4"); got != "Total km" {
		t.Fatalf("A4 = %q", got)
	}
}
