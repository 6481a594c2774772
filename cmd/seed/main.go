// Seed creates a demo dataset: an admin, two employees, a handful of
// projects and a few journal entries. Intended for local development only.
package main

import (
	"context"
	"log"
	"time"

	"github.com/eklundh/tidflow/internal/config"
	"github.com/eklundh/tidflow/internal/infrastructure/database"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"github.com/shopspring/decimal"
)

func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewMySQLConnection(conf.Database.DSN, false)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	ctx := context.Background()
	authSvc := service.NewAuthService(repository.NewUserRepo(db), repository.NewEmployeeRepo(db))

	users := []struct {
		name, email, password, role string
	}{
		{"Admin", "admin@tidflow.local", "admin123", model.RoleAdmin},
		{"Anna Lindqvist", "anna@tidflow.local", "password", model.RoleEmployee},
		{"Johan Berg", "johan@tidflow.local", "password", model.RoleEmployee},
	}
	for _, u := range users {
		if err := authSvc.Register(ctx, u.name, u.email, u.password, u.role); err != nil {
			log.Printf("skipping user %s: %v", u.email, err)
		}
	}

	projectRepo := repository.NewProjectRepo(db)
	rate := decimal.NewFromInt(850)
	budget := 400.0
	projects := []model.Project{
		{Name: "Interntid", ProjectCode: "INT-000", Status: model.ProjectStatusOngoing},
		{Name: "Serviceavtal Nordmark AB", ProjectCode: "SRV-101", Status: model.ProjectStatusOngoing, HourlyRate: &rate, BudgetHours: &budget, ProjectManagerEmail: "admin@tidflow.local", IsBillable: true},
		{Name: "Installation Brf Utsikten", ProjectCode: "INS-202", Status: model.ProjectStatusPlanned, HourlyRate: &rate, IsBillable: true},
		{Name: "Hyresmaskiner Q3", ProjectCode: "HYR-303", Status: model.ProjectStatusFinished},
	}
	for i := range projects {
		if err := projectRepo.Create(ctx, &projects[i]); err != nil {
			log.Printf("skipping project %s: %v", projects[i].ProjectCode, err)
		}
	}

	journalRepo := repository.NewJournalRepo(db)
	yesterday := time.Now().AddDate(0, 0, -1)
	trips := []model.DrivingJournalEntry{
		{
			VehicleID:          "veh-1",
			RegistrationNumber: "ABC123",
			DriverEmail:        "anna@tidflow.local",
			DriverName:         "Anna Lindqvist",
			StartTime:          time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 7, 30, 0, 0, time.Local),
			EndTime:            time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 8, 5, 0, 0, time.Local),
			DistanceKm:         23.4,
			DurationMinutes:    35,
			TripType:           model.TripTypePending,
			Status:             model.TripStatusPendingReview,
			Source:             model.TripSourceGPS,
			ProviderTripID:     "seed-trip-1",
		},
		{
			VehicleID:          "veh-2",
			RegistrationNumber: "XYZ789",
			DriverEmail:        "johan@tidflow.local",
			DriverName:         "Johan Berg",
			StartTime:          time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 16, 10, 0, 0, time.Local),
			EndTime:            time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 16, 40, 0, 0, time.Local),
			DistanceKm:         18.0,
			DurationMinutes:    30,
			TripType:           model.TripTypePrivate,
			Status:             model.TripStatusApproved,
			Source:             model.TripSourceManual,
		},
	}
	for i := range trips {
		if err := journalRepo.Create(ctx, &trips[i]); err != nil {
			log.Printf("skipping trip %d: %v", i+1, err)
			continue
		}
		_ = journalRepo.AppendEvent(ctx, &model.TripEvent{
			EntryID:    trips[i].ID,
			Timestamp:  trips[i].StartTime,
			ChangedBy:  "seed",
			ChangeType: model.TripEventCreated,
			Comment:    "seed data",
		})
	}

	log.Println("seed complete")
}
