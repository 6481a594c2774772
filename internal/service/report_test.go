package service

import (
	"math"
	"testing"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/shopspring/decimal"
)

func TestSummarizeTimesheet(t *testing.T) {
	entries := []model.TimeEntry{
		{
			EmployeeEmail: "anna@x.se",
			Date:          "2026-03-02",
			Status:        model.TimeEntryStatusCompleted,
			TotalHours:    7.5,
			Allocations: []model.ProjectAllocation{
				{ProjectID: 1, Hours: 5, Category: model.AllocationCategoryInstall},
				{ProjectID: 2, Hours: 2.5, Category: model.AllocationCategoryInternal},
			},
		},
		{
			EmployeeEmail: "johan@x.se",
			Date:          "2026-03-02",
			Status:        model.TimeEntryStatusCompleted,
			TotalHours:    13,
			AnomalyFlag:   true,
			Allocations: []model.ProjectAllocation{
				{ProjectID: 1, Hours: 13, Category: model.AllocationCategoryInstall},
			},
		},
		// Active sessions have no hours yet and are skipped.
		{EmployeeEmail: "anna@x.se", Date: "2026-03-03", Status: model.TimeEntryStatusActive},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary := SummarizeTimesheet(entries, from, from.AddDate(0, 1, 0))

	if summary.TotalHours != 20.5 {
		t.Fatalf("TotalHours = %v, want 20.5", summary.TotalHours)
	}
	if summary.HoursByEmployee["anna@x.se"] != 7.5 {
		t.Fatalf("anna hours = %v", summary.HoursByEmployee["anna@x.se"])
	}
	if summary.HoursByCategory[model.AllocationCategoryInstall] != 18 {
		t.Fatalf("install hours = %v", summary.HoursByCategory[model.AllocationCategoryInstall])
	}
	if summary.HoursByDay["2026-03-02"] != 20.5 {
		t.Fatalf("day hours = %v", summary.HoursByDay["2026-03-02"])
	}
	if summary.AnomalyCount != 1 {
		t.Fatalf("AnomalyCount = %d", summary.AnomalyCount)
	}
}

func TestSummarizeJournal(t *testing.T) {
	entries := []model.DrivingJournalEntry{
		{DriverEmail: "anna@x.se", DistanceKm: 100, TripType: model.TripTypeBusiness},
		{DriverEmail: "anna@x.se", DistanceKm: 20, TripType: model.TripTypePrivate},
		{DriverEmail: "johan@x.se", DistanceKm: 30.5, TripType: model.TripTypePending},
	}

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	summary := SummarizeJournal(entries, from, from.AddDate(0, 1, 0))

	if summary.TotalKm != 150.5 {
		t.Fatalf("TotalKm = %v", summary.TotalKm)
	}
	if summary.BusinessKm != 100 || summary.PrivateKm != 20 || summary.UnclassifiedKm != 30.5 {
		t.Fatalf("split = %v/%v/%v", summary.BusinessKm, summary.PrivateKm, summary.UnclassifiedKm)
	}
	if summary.KmByDriver["anna@x.se"] != 120 {
		t.Fatalf("anna km = %v", summary.KmByDriver["anna@x.se"])
	}
	// 100 km business at 2 kr/km
	if !summary.BusinessCost.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("BusinessCost = %s, want 200", summary.BusinessCost)
	}
}

func TestBuildProjectReport(t *testing.T) {
	budget := 100.0
	rate := decimal.NewFromInt(850)

	t.Run("over budget clamps display only", func(t *testing.T) {
		p := model.Project{ID: 1, BudgetHours: &budget, HourlyRate: &rate}
		report := BuildProjectReport(p, 130)

		if report.BudgetConsumption == nil || math.Abs(*report.BudgetConsumption-130) > 1e-9 {
			t.Fatalf("raw consumption = %v, want 130", report.BudgetConsumption)
		}
		if report.BudgetDisplay == nil || *report.BudgetDisplay != 100 {
			t.Fatalf("display = %v, want 100", report.BudgetDisplay)
		}
		if report.EstimatedCost == nil || !report.EstimatedCost.Equal(decimal.NewFromInt(110500)) {
			t.Fatalf("cost = %v, want 110500", report.EstimatedCost)
		}
	})

	t.Run("no budget no consumption", func(t *testing.T) {
		report := BuildProjectReport(model.Project{ID: 2, HourlyRate: &rate}, 40)
		if report.BudgetConsumption != nil || report.BudgetDisplay != nil {
			t.Fatal("consumption should be nil without a budget")
		}
		if report.EstimatedCost == nil || !report.EstimatedCost.Equal(decimal.NewFromInt(34000)) {
			t.Fatalf("cost = %v, want 34000", report.EstimatedCost)
		}
	})

	t.Run("no rate no cost", func(t *testing.T) {
		report := BuildProjectReport(model.Project{ID: 3, BudgetHours: &budget}, 50)
		if report.EstimatedCost != nil {
			t.Fatal("cost should be nil without an hourly rate")
		}
		if report.BudgetConsumption == nil || *report.BudgetConsumption != 50 {
			t.Fatalf("consumption = %v, want 50", report.BudgetConsumption)
		}
	})
}
