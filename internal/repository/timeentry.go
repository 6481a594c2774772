package repository

import (
	"context"
	"errors"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"gorm.io/gorm"
)

// TimeEntryFilter narrows time entry listings.
type TimeEntryFilter struct {
	EmployeeEmail string
	Status        string
	From          time.Time
	To            time.Time
}

// TimeEntryRepo is the persistence interface for clock-in sessions. Kept as
// an interface so services can be tested against an in-memory fake.
type TimeEntryRepo interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	Update(ctx context.Context, entry *model.TimeEntry) error
	GetByID(ctx context.Context, id uint) (*model.TimeEntry, error)
	// ActiveByEmployee returns the employee's single active entry, or nil
	// when they are not clocked in.
	ActiveByEmployee(ctx context.Context, email string) (*model.TimeEntry, error)
	List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error)
	AddBreak(ctx context.Context, b *model.Break) error
	UpdateBreak(ctx context.Context, b *model.Break) error
	// ReplaceAllocations swaps the entry's allocation rows in one transaction.
	ReplaceAllocations(ctx context.Context, entryID uint, allocations []model.ProjectAllocation) error
}

type timeEntryRepo struct {
	db *gorm.DB
}

func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepo {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timeEntryRepo) Update(ctx context.Context, entry *model.TimeEntry) error {
	// Associations are managed through AddBreak/ReplaceAllocations; Save here
	// only writes the entry row itself.
	return r.db.WithContext(ctx).Omit("Breaks", "Allocations").Save(entry).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, id uint) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Preload("Allocations").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) ActiveByEmployee(ctx context.Context, email string) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Breaks").
		Preload("Allocations").
		Where("employee_email = ? AND status = ?", email, model.TimeEntryStatusActive).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepo) List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error) {
	q := r.db.WithContext(ctx).
		Preload("Breaks").
		Preload("Allocations")

	if filter.EmployeeEmail != "" {
		q = q.Where("employee_email = ?", filter.EmployeeEmail)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("clock_in_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("clock_in_time < ?", filter.To)
	}

	var entries []model.TimeEntry
	err := q.Order("clock_in_time DESC").Find(&entries).Error
	return entries, err
}

func (r *timeEntryRepo) AddBreak(ctx context.Context, b *model.Break) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *timeEntryRepo) UpdateBreak(ctx context.Context, b *model.Break) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *timeEntryRepo) ReplaceAllocations(ctx context.Context, entryID uint, allocations []model.ProjectAllocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("time_entry_id = ?", entryID).Delete(&model.ProjectAllocation{}).Error; err != nil {
			return err
		}
		for i := range allocations {
			allocations[i].ID = 0
			allocations[i].TimeEntryID = entryID
		}
		if len(allocations) == 0 {
			return nil
		}
		return tx.Create(&allocations).Error
	})
}
