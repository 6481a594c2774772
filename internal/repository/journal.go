package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"gorm.io/gorm"
)

// JournalFilter narrows journal listings. Soft-deleted entries are excluded
// from every listing; only GetByID can reach them.
type JournalFilter struct {
	DriverEmail string
	VehicleID   string
	TripType    string
	Status      string
	From        time.Time
	To          time.Time
}

type JournalRepo interface {
	Create(ctx context.Context, entry *model.DrivingJournalEntry) error
	Update(ctx context.Context, entry *model.DrivingJournalEntry) error
	// GetByID fetches an entry regardless of its deletion flag, with the
	// event history preloaded in append order.
	GetByID(ctx context.Context, id uint) (*model.DrivingJournalEntry, error)
	List(ctx context.Context, filter JournalFilter) ([]model.DrivingJournalEntry, error)
	// AppendEvent inserts one audit row. Events are never updated or removed.
	AppendEvent(ctx context.Context, event *model.TripEvent) error
	// HasProviderTrip reports whether a provider trip id was already imported.
	HasProviderTrip(ctx context.Context, providerTripID string) (bool, error)
	// LatestProviderTripID returns the cursor for the next provider sync.
	LatestProviderTripID(ctx context.Context) (string, error)
}

type journalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) JournalRepo {
	return &journalRepo{db: db}
}

func (r *journalRepo) Create(ctx context.Context, entry *model.DrivingJournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepo) Update(ctx context.Context, entry *model.DrivingJournalEntry) error {
	return r.db.WithContext(ctx).Omit("Events").Save(entry).Error
}

func (r *journalRepo) GetByID(ctx context.Context, id uint) (*model.DrivingJournalEntry, error) {
	var entry model.DrivingJournalEntry
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("trip_events.id ASC")
		}).
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepo) List(ctx context.Context, filter JournalFilter) ([]model.DrivingJournalEntry, error) {
	q := r.db.WithContext(ctx).Where("is_deleted = ?", false)

	if filter.DriverEmail != "" {
		q = q.Where("driver_email = ?", filter.DriverEmail)
	}
	if filter.VehicleID != "" {
		q = q.Where("vehicle_id = ?", filter.VehicleID)
	}
	if filter.TripType != "" {
		q = q.Where("trip_type = ?", filter.TripType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("start_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("start_time < ?", filter.To)
	}

	var entries []model.DrivingJournalEntry
	err := q.Order("start_time DESC").Find(&entries).Error
	return entries, err
}

func (r *journalRepo) AppendEvent(ctx context.Context, event *model.TripEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *journalRepo) HasProviderTrip(ctx context.Context, providerTripID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DrivingJournalEntry{}).
		Where("provider_trip_id = ?", providerTripID).
		Count(&count).Error
	return count > 0, err
}

func (r *journalRepo) LatestProviderTripID(ctx context.Context) (string, error) {
	var entry model.DrivingJournalEntry
	err := r.db.WithContext(ctx).
		Where("source = ? AND provider_trip_id <> ''", model.TripSourceGPS).
		Order("end_time DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.ProviderTripID, nil
}
