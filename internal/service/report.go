package service

import (
	"context"
	"sort"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/shopspring/decimal"
)

// VehicleCostPerKm is the flat per-kilometer rate applied to business trips.
var VehicleCostPerKm = decimal.NewFromInt(2)

// TimesheetSummary aggregates completed time entries over a period.
type TimesheetSummary struct {
	From            string             `json:"from"`
	To              string             `json:"to"`
	TotalHours      float64            `json:"total_hours"`
	HoursByEmployee map[string]float64 `json:"hours_by_employee"`
	HoursByCategory map[string]float64 `json:"hours_by_category"`
	HoursByDay      map[string]float64 `json:"hours_by_day"`
	AnomalyCount    int                `json:"anomaly_count"`
	Entries         []model.TimeEntry  `json:"entries,omitempty"`
}

// JournalSummary aggregates journal entries over a period. Soft-deleted
// trips never reach it; the repository excludes them from listings.
type JournalSummary struct {
	From           string                      `json:"from"`
	To             string                      `json:"to"`
	TotalKm        float64                     `json:"total_km"`
	BusinessKm     float64                     `json:"business_km"`
	PrivateKm      float64                     `json:"private_km"`
	UnclassifiedKm float64                     `json:"unclassified_km"`
	KmByDriver     map[string]float64          `json:"km_by_driver"`
	BusinessCost   decimal.Decimal             `json:"business_cost"`
	Entries        []model.DrivingJournalEntry `json:"entries,omitempty"`
}

// ProjectReport is the budget and cost view for one project.
type ProjectReport struct {
	Project           model.Project    `json:"project"`
	AllocatedHours    float64          `json:"allocated_hours"`
	BudgetConsumption *float64         `json:"budget_consumption,omitempty"`
	BudgetDisplay     *float64         `json:"budget_display,omitempty"`
	EstimatedCost     *decimal.Decimal `json:"estimated_cost,omitempty"`
}

// ReportService builds the aggregate views. The math lives in free functions
// so it can be tested without a database.
type ReportService struct {
	entries  repository.TimeEntryRepo
	journal  repository.JournalRepo
	projects repository.ProjectRepo
}

func NewReportService(entries repository.TimeEntryRepo, journal repository.JournalRepo, projects repository.ProjectRepo) *ReportService {
	return &ReportService{entries: entries, journal: journal, projects: projects}
}

func (s *ReportService) Timesheet(ctx context.Context, employeeEmail string, from, to time.Time, includeEntries bool) (*TimesheetSummary, error) {
	entries, err := s.entries.List(ctx, repository.TimeEntryFilter{
		EmployeeEmail: employeeEmail,
		From:          from,
		To:            to,
	})
	if err != nil {
		return nil, err
	}
	summary := SummarizeTimesheet(entries, from, to)
	if includeEntries {
		summary.Entries = entries
	}
	return summary, nil
}

func (s *ReportService) Journal(ctx context.Context, filter repository.JournalFilter, includeEntries bool) (*JournalSummary, error) {
	entries, err := s.journal.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := SummarizeJournal(entries, filter.From, filter.To)
	if includeEntries {
		summary.Entries = entries
	}
	return summary, nil
}

func (s *ReportService) Projects(ctx context.Context, status string) ([]ProjectReport, error) {
	projects, err := s.projects.List(ctx, status)
	if err != nil {
		return nil, err
	}
	reports := make([]ProjectReport, 0, len(projects))
	for _, p := range projects {
		hours, err := s.projects.AllocatedHours(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, BuildProjectReport(p, hours))
	}
	return reports, nil
}

// SummarizeTimesheet folds completed and pending-review entries into one
// summary. Active sessions carry no hours yet and are skipped.
func SummarizeTimesheet(entries []model.TimeEntry, from, to time.Time) *TimesheetSummary {
	summary := &TimesheetSummary{
		From:            from.Format("2006-01-02"),
		To:              to.Format("2006-01-02"),
		HoursByEmployee: map[string]float64{},
		HoursByCategory: map[string]float64{},
		HoursByDay:      map[string]float64{},
	}
	for _, e := range entries {
		if e.Status == model.TimeEntryStatusActive {
			continue
		}
		summary.TotalHours += e.TotalHours
		summary.HoursByEmployee[e.EmployeeEmail] += e.TotalHours
		summary.HoursByDay[e.Date] += e.TotalHours
		for _, a := range e.Allocations {
			summary.HoursByCategory[a.Category] += a.Hours
		}
		if e.AnomalyFlag {
			summary.AnomalyCount++
		}
	}
	return summary
}

// SummarizeJournal totals distance by classification and driver. Business
// distance is costed at the flat per-km rate.
func SummarizeJournal(entries []model.DrivingJournalEntry, from, to time.Time) *JournalSummary {
	summary := &JournalSummary{
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		KmByDriver: map[string]float64{},
	}
	for _, e := range entries {
		summary.TotalKm += e.DistanceKm
		summary.KmByDriver[e.DriverEmail] += e.DistanceKm
		switch e.TripType {
		case model.TripTypeBusiness:
			summary.BusinessKm += e.DistanceKm
		case model.TripTypePrivate:
			summary.PrivateKm += e.DistanceKm
		default:
			summary.UnclassifiedKm += e.DistanceKm
		}
	}
	summary.BusinessCost = decimal.NewFromFloat(summary.BusinessKm).Mul(VehicleCostPerKm).Round(2)
	return summary
}

// BuildProjectReport derives the budget figures for one project. The raw
// consumption percentage may exceed 100; the display value is clamped to
// [0, 100] for progress bars. Both are nil without a budget, and the cost
// is nil without an hourly rate.
func BuildProjectReport(p model.Project, allocatedHours float64) ProjectReport {
	report := ProjectReport{Project: p, AllocatedHours: allocatedHours}

	if p.BudgetHours != nil && *p.BudgetHours > 0 {
		raw := allocatedHours / *p.BudgetHours * 100
		display := raw
		if display > 100 {
			display = 100
		}
		if display < 0 {
			display = 0
		}
		report.BudgetConsumption = &raw
		report.BudgetDisplay = &display
	}

	if p.HourlyRate != nil {
		cost := decimal.NewFromFloat(allocatedHours).Mul(*p.HourlyRate).Round(2)
		report.EstimatedCost = &cost
	}

	return report
}

// SortedKeys returns map keys in order, for stable report rendering.
func SortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
