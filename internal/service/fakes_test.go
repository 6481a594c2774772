package service

import (
	"context"
	"errors"
	"sync"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
)

var errNotFound = errors.New("not found")

// In-memory repository fakes. Mutexes guard against the background
// goroutines the services spawn (budget check, trip memory write).

type fakeTimeEntryRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[uint]*model.TimeEntry
}

func newFakeTimeEntryRepo() *fakeTimeEntryRepo {
	return &fakeTimeEntryRepo{nextID: 1, entries: map[uint]*model.TimeEntry{}}
}

func (f *fakeTimeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.nextID
	f.nextID++
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeTimeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.ID]; !ok {
		return errNotFound
	}
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeTimeEntryRepo) GetByID(_ context.Context, id uint) (*model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeTimeEntryRepo) ActiveByEmployee(_ context.Context, email string) (*model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.EmployeeEmail == email && entry.Status == model.TimeEntryStatusActive {
			cp := *entry
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTimeEntryRepo) List(_ context.Context, filter repository.TimeEntryFilter) ([]model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TimeEntry
	for _, entry := range f.entries {
		if filter.EmployeeEmail != "" && entry.EmployeeEmail != filter.EmployeeEmail {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		out = append(out, *entry)
	}
	return out, nil
}

func (f *fakeTimeEntryRepo) AddBreak(_ context.Context, b *model.Break) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[b.TimeEntryID]
	if !ok {
		return errNotFound
	}
	b.ID = uint(len(entry.Breaks) + 1)
	entry.Breaks = append(entry.Breaks, *b)
	return nil
}

func (f *fakeTimeEntryRepo) UpdateBreak(_ context.Context, b *model.Break) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[b.TimeEntryID]
	if !ok {
		return errNotFound
	}
	for i := range entry.Breaks {
		if entry.Breaks[i].ID == b.ID {
			entry.Breaks[i] = *b
			return nil
		}
	}
	return errNotFound
}

func (f *fakeTimeEntryRepo) ReplaceAllocations(_ context.Context, entryID uint, allocations []model.ProjectAllocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[entryID]
	if !ok {
		return errNotFound
	}
	entry.Allocations = append([]model.ProjectAllocation(nil), allocations...)
	return nil
}

type fakeJournalRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[uint]*model.DrivingJournalEntry
	events  []model.TripEvent
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{nextID: 1, entries: map[uint]*model.DrivingJournalEntry{}}
}

func (f *fakeJournalRepo) Create(_ context.Context, entry *model.DrivingJournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.nextID
	f.nextID++
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeJournalRepo) Update(_ context.Context, entry *model.DrivingJournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.ID]; !ok {
		return errNotFound
	}
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeJournalRepo) GetByID(_ context.Context, id uint) (*model.DrivingJournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *entry
	cp.Events = nil
	for _, e := range f.events {
		if e.EntryID == id {
			cp.Events = append(cp.Events, e)
		}
	}
	return &cp, nil
}

func (f *fakeJournalRepo) List(_ context.Context, filter repository.JournalFilter) ([]model.DrivingJournalEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DrivingJournalEntry
	for _, entry := range f.entries {
		if entry.IsDeleted {
			continue
		}
		if filter.DriverEmail != "" && entry.DriverEmail != filter.DriverEmail {
			continue
		}
		if filter.TripType != "" && entry.TripType != filter.TripType {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		out = append(out, *entry)
	}
	return out, nil
}

func (f *fakeJournalRepo) AppendEvent(_ context.Context, event *model.TripEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = uint(len(f.events) + 1)
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeJournalRepo) HasProviderTrip(_ context.Context, providerTripID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, entry := range f.entries {
		if entry.ProviderTripID == providerTripID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJournalRepo) LatestProviderTripID(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.DrivingJournalEntry
	for _, entry := range f.entries {
		if entry.Source != model.TripSourceGPS || entry.ProviderTripID == "" {
			continue
		}
		if latest == nil || entry.EndTime.After(latest.EndTime) {
			latest = entry
		}
	}
	if latest == nil {
		return "", nil
	}
	return latest.ProviderTripID, nil
}

func (f *fakeJournalRepo) eventsFor(id uint) []model.TripEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.TripEvent
	for _, e := range f.events {
		if e.EntryID == id {
			out = append(out, e)
		}
	}
	return out
}

type fakeProjectRepo struct {
	mu        sync.Mutex
	projects  map[uint]*model.Project
	allocated map[uint]float64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[uint]*model.Project{}, allocated: map[uint]float64{}}
}

func (f *fakeProjectRepo) add(p model.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = &p
}

func (f *fakeProjectRepo) Create(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uint(len(f.projects) + 1)
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id uint) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectRepo) GetByCode(_ context.Context, code string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ProjectCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeProjectRepo) List(_ context.Context, status string) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Project
	for _, p := range f.projects {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectRepo) ActiveCodes(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var codes []string
	for _, p := range f.projects {
		if p.Status == model.ProjectStatusPlanned || p.Status == model.ProjectStatusOngoing {
			codes = append(codes, p.ProjectCode)
		}
	}
	return codes, nil
}

func (f *fakeProjectRepo) AllocatedHours(_ context.Context, projectID uint) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allocated[projectID], nil
}

type fakeApprovalRepo struct {
	mu       sync.Mutex
	nextID   uint
	requests map[uint]*model.ApprovalRequest
	applied  *model.TimeEntry
}

func newFakeApprovalRepo() *fakeApprovalRepo {
	return &fakeApprovalRepo{nextID: 1, requests: map[uint]*model.ApprovalRequest{}}
}

func (f *fakeApprovalRepo) Create(_ context.Context, req *model.ApprovalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.nextID
	f.nextID++
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeApprovalRepo) Update(_ context.Context, req *model.ApprovalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeApprovalRepo) GetByID(_ context.Context, id uint) (*model.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeApprovalRepo) ListPending(_ context.Context) ([]model.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ApprovalRequest
	for _, req := range f.requests {
		if req.Status == model.ApprovalStatusPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) ListByRequester(_ context.Context, email string) ([]model.ApprovalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ApprovalRequest
	for _, req := range f.requests {
		if req.RequesterEmail == email {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) ApplyTimeCorrection(_ context.Context, req *model.ApprovalRequest, entry *model.TimeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cpReq := *req
	f.requests[req.ID] = &cpReq
	cpEntry := *entry
	f.applied = &cpEntry
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uint(len(f.notifications) + 1)
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, email string, unreadOnly bool) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Notification
	for _, n := range f.notifications {
		if n.RecipientEmail != email {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id uint, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id && f.notifications[i].RecipientEmail == email {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return errNotFound
}

type fakeMemoryRepo struct {
	mu      sync.Mutex
	saved   []string
	deleted []uint
	results []repository.TripMemoryResult
}

func (f *fakeMemoryRepo) SaveMemory(_ context.Context, _ string, _ uint, description, _ string, _ []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, description)
	return nil
}

func (f *fakeMemoryRepo) SearchSimilar(_ context.Context, _ string, _ int, _ []float32) ([]repository.TripMemoryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results, nil
}

func (f *fakeMemoryRepo) Delete(_ context.Context, entryID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, entryID)
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) GetVector(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, 4), nil
}

type fakeClassifier struct {
	suggestion *model.TripSuggestion
	err        error
	lastCodes  []string
}

func (f *fakeClassifier) ClassifyTrip(_ context.Context, _ string, projectCodes, _ []string) (*model.TripSuggestion, error) {
	f.lastCodes = projectCodes
	return f.suggestion, f.err
}

type fakeGeocoder struct {
	address string
	err     error
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	return f.address, f.err
}
