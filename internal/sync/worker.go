// Package sync pulls finished trips from the vehicle tracking provider into
// the driving journal on a fixed interval.
package sync

import (
	"context"
	"time"

	"github.com/eklundh/tidflow/internal/infrastructure/gps"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/service"
	"go.uber.org/zap"
)

// Worker polls the provider and imports new trips. Imports are idempotent
// by provider trip id, so an overlap between the cursor and an earlier run
// only costs a lookup.
type Worker struct {
	provider gps.Provider
	journal  repository.JournalRepo
	trips    *service.JournalService
	interval time.Duration
	log      *zap.Logger
}

func NewWorker(provider gps.Provider, journal repository.JournalRepo, trips *service.JournalService, interval time.Duration, log *zap.Logger) *Worker {
	return &Worker{
		provider: provider,
		journal:  journal,
		trips:    trips,
		interval: interval,
		log:      log,
	}
}

// Run syncs once immediately, then on every tick until the context is
// canceled.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("gps sync worker started", zap.Duration("interval", w.interval))

	if err := w.SyncOnce(ctx); err != nil {
		w.log.Error("gps sync failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("gps sync worker stopped")
			return
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				w.log.Error("gps sync failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce imports all provider trips newer than the stored cursor.
func (w *Worker) SyncOnce(ctx context.Context) error {
	cursor, err := w.journal.LatestProviderTripID(ctx)
	if err != nil {
		return err
	}

	trips, err := w.provider.TripsSince(ctx, cursor)
	if err != nil {
		return err
	}

	imported := 0
	for _, trip := range trips {
		entry, err := w.trips.Import(ctx, service.TripImport{
			ProviderTripID:     trip.ID,
			VehicleID:          trip.VehicleID,
			RegistrationNumber: trip.RegistrationNumber,
			DriverEmail:        trip.DriverEmail,
			DriverName:         trip.DriverName,
			StartTime:          trip.StartTime,
			EndTime:            trip.EndTime,
			DistanceKm:         trip.DistanceKm,
			DurationMinutes:    trip.DurationMinutes,
			StartAddress:       trip.StartAddress,
			EndAddress:         trip.EndAddress,
		})
		if err != nil {
			w.log.Error("trip import failed", zap.String("provider_trip_id", trip.ID), zap.Error(err))
			continue
		}
		if entry != nil {
			imported++
		}
	}

	if imported > 0 {
		w.log.Info("gps sync complete", zap.Int("fetched", len(trips)), zap.Int("imported", imported))
	}
	return nil
}
