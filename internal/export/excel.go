// Package export renders summaries as Excel workbooks for payroll and the
// tax authority's driving journal audits.
package export

import (
	"fmt"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/xuri/excelize/v2"
)

var timesheetHeaders = []string{"Date", "Employee", "Clock In", "Clock Out", "Break (min)", "Net Hours", "Status", "Anomaly"}

var journalHeaders = []string{"Date", "Reg Nr", "Driver", "Start", "End", "Km", "Type", "Purpose", "Project", "Status"}

// Timesheet writes one row per completed entry plus a totals row.
func Timesheet(summary *service.TimesheetSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Timesheet"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range timesheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range summary.Entries {
		clockOut := ""
		if e.ClockOutTime != nil {
			clockOut = e.ClockOutTime.Format("15:04")
		}
		anomaly := ""
		if e.AnomalyFlag {
			anomaly = e.AnomalyReason
		}
		setRow(f, sheet, row, []any{
			e.Date,
			e.EmployeeEmail,
			e.ClockInTime.Format("15:04"),
			clockOut,
			e.TotalBreakMinutes,
			e.TotalHours,
			e.Status,
			anomaly,
		})
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), summary.TotalHours)

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Hours per category")
	for _, category := range service.SortedKeys(summary.HoursByCategory) {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), category)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), summary.HoursByCategory[category])
	}

	return f, nil
}

// Journal writes one row per trip plus distance totals per classification.
// The layout follows Skatteverket's expectations for a driving journal.
func Journal(summary *service.JournalSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Körjournal"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range journalHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range summary.Entries {
		setRow(f, sheet, row, []any{
			e.StartTime.Format("2006-01-02"),
			e.RegistrationNumber,
			e.DriverName,
			e.StartTime.Format("15:04"),
			e.EndTime.Format("15:04"),
			e.DistanceKm,
			tripTypeLabel(e.TripType),
			e.Purpose,
			e.ProjectCode,
			e.Status,
		})
		row++
	}

	row++
	totals := [][2]any{
		{"Total km", summary.TotalKm},
		{"Tjänsteresor km", summary.BusinessKm},
		{"Privata resor km", summary.PrivateKm},
		{"Oklassificerade km", summary.UnclassifiedKm},
		{"Kostnad tjänsteresor (kr)", summary.BusinessCost.StringFixed(2)},
	}
	for _, t := range totals {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t[0])
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), t[1])
		row++
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}

func tripTypeLabel(tripType string) string {
	switch tripType {
	case model.TripTypeBusiness:
		return "Tjänst"
	case model.TripTypePrivate:
		return "Privat"
	default:
		return "Väntar"
	}
}
