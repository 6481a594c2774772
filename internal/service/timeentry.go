package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/eklundh/tidflow/internal/infrastructure/geo"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/timecalc"
	"go.uber.org/zap"
)

// anomalyNetHours is the threshold above which a completed session is
// flagged for admin review.
const anomalyNetHours = 12.0

// Location is a client-supplied coordinate pair attached to a clock event.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TimeEntryService implements the time allocation workflow: clocking in and
// out, breaks, splitting worked hours across projects and correction
// requests.
type TimeEntryService struct {
	entries       repository.TimeEntryRepo
	projects      repository.ProjectRepo
	approvals     repository.ApprovalRepo
	notifications repository.NotificationRepo
	geocoder      geo.Geocoder
	log           *zap.Logger
	now           func() time.Time
}

func NewTimeEntryService(
	entries repository.TimeEntryRepo,
	projects repository.ProjectRepo,
	approvals repository.ApprovalRepo,
	notifications repository.NotificationRepo,
	geocoder geo.Geocoder,
	log *zap.Logger,
) *TimeEntryService {
	return &TimeEntryService{
		entries:       entries,
		projects:      projects,
		approvals:     approvals,
		notifications: notifications,
		geocoder:      geocoder,
		log:           log,
		now:           time.Now,
	}
}

// ClockIn starts a session. The entry begins with a single zero-hour
// allocation on the selected project in the internal-time category; the
// hours land at clock-out. Geocoding failures never block the clock-in.
func (s *TimeEntryService) ClockIn(ctx context.Context, session *Session, projectID uint, loc *Location) (*model.TimeEntry, error) {
	if projectID == 0 {
		return nil, ErrProjectRequired
	}

	active, err := s.entries.ActiveByEmployee(ctx, session.Email())
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyClockedIn
	}

	now := s.now()
	entry := &model.TimeEntry{
		EmployeeEmail: session.Email(),
		Date:          timecalc.DateKey(now),
		ClockInTime:   now,
		Status:        model.TimeEntryStatusActive,
		Allocations: []model.ProjectAllocation{
			{ProjectID: projectID, Hours: 0, Category: model.AllocationCategoryInternal},
		},
	}

	if loc != nil {
		entry.ClockInLatitude = &loc.Latitude
		entry.ClockInLongitude = &loc.Longitude
		entry.ClockInAddress = s.resolveAddress(ctx, loc)
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ToggleBreak starts a break, or closes the currently open one and folds its
// duration into the entry's break total. Not permitted while clocked out.
func (s *TimeEntryService) ToggleBreak(ctx context.Context, session *Session) (*model.TimeEntry, error) {
	entry, err := s.entries.ActiveByEmployee(ctx, session.Email())
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNoActiveEntry
	}

	now := s.now()
	if open := openBreak(entry); open != nil {
		s.closeBreak(entry, open, now)
		if err := s.entries.UpdateBreak(ctx, open); err != nil {
			return nil, err
		}
		if err := s.entries.Update(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	b := &model.Break{TimeEntryID: entry.ID, StartTime: now}
	if err := s.entries.AddBreak(ctx, b); err != nil {
		return nil, err
	}
	entry.Breaks = append(entry.Breaks, *b)
	return entry, nil
}

// ClockOut ends the active session. When the entry still carries only its
// single clock-in allocation, that allocation absorbs the net hours and the
// entry completes directly; needsAllocation reports whether the caller must
// run the allocation step instead.
func (s *TimeEntryService) ClockOut(ctx context.Context, session *Session, loc *Location) (*model.TimeEntry, bool, error) {
	entry, err := s.entries.ActiveByEmployee(ctx, session.Email())
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		return nil, false, ErrNoActiveEntry
	}

	now := s.now()

	// A break left running is closed at the clock-out instant.
	if open := openBreak(entry); open != nil {
		s.closeBreak(entry, open, now)
		if err := s.entries.UpdateBreak(ctx, open); err != nil {
			return nil, false, err
		}
	}

	entry.ClockOutTime = &now
	entry.TotalHours = timecalc.NetHours(entry.ClockInTime, now, entry.TotalBreakMinutes)
	entry.Status = model.TimeEntryStatusCompleted

	switch {
	case entry.TotalHours > anomalyNetHours:
		entry.AnomalyFlag = true
		entry.AnomalyReason = fmt.Sprintf("net hours %.2f exceed %.0fh", entry.TotalHours, anomalyNetHours)
	case timecalc.DateKey(now) != entry.Date:
		entry.AnomalyFlag = true
		entry.AnomalyReason = "session crossed midnight"
	}

	if loc != nil {
		entry.ClockOutLatitude = &loc.Latitude
		entry.ClockOutLongitude = &loc.Longitude
		entry.ClockOutAddress = s.resolveAddress(ctx, loc)
	}

	needsAllocation := len(entry.Allocations) != 1
	if !needsAllocation {
		entry.Allocations[0].Hours = entry.TotalHours
		if err := s.entries.ReplaceAllocations(ctx, entry.ID, entry.Allocations); err != nil {
			return nil, false, err
		}
	}

	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, false, err
	}

	if entry.AnomalyFlag {
		n := &model.Notification{
			RecipientEmail: entry.EmployeeEmail,
			Kind:           model.NotificationKindAnomaly,
			Title:          "Time entry flagged for review",
			Message:        entry.AnomalyReason,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.log.Warn("anomaly notification failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
		}
	}

	return entry, needsAllocation, nil
}

// AvailableHours returns the figure offered for allocation: the stored net
// total with the lunch deduction applied.
func (s *TimeEntryService) AvailableHours(entry *model.TimeEntry) float64 {
	return timecalc.AllocatableHours(entry.TotalHours)
}

// AllocateProjects validates and persists an allocation split. Over-
// allocation is rejected outright with the exact excess; under-allocation
// beyond the tolerance goes through only when the caller confirmed it. The
// project budget check runs in the background and never blocks the save.
func (s *TimeEntryService) AllocateProjects(ctx context.Context, session *Session, entryID uint, rows []timecalc.AllocationRow, confirmed bool) (*model.TimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.EmployeeEmail != session.Email() && !session.IsAdmin() {
		return nil, ErrForbidden
	}
	if entry.ClockOutTime == nil {
		return nil, ErrNotClockedOut
	}

	available := timecalc.AllocatableHours(entry.TotalHours)
	clean, needsConfirm, err := timecalc.ValidateAllocations(rows, available)
	if err != nil {
		return nil, err
	}
	if len(clean) == 0 {
		return nil, ErrAllocationRequired
	}
	if needsConfirm && !confirmed {
		return nil, ErrConfirmationRequired
	}

	allocations := make([]model.ProjectAllocation, len(clean))
	for i, r := range clean {
		allocations[i] = model.ProjectAllocation{
			ProjectID: r.ProjectID,
			Hours:     r.Hours,
			Category:  r.Category,
			Notes:     r.Notes,
		}
	}
	if err := s.entries.ReplaceAllocations(ctx, entry.ID, allocations); err != nil {
		return nil, err
	}

	entry.Status = model.TimeEntryStatusCompleted
	entry.Allocations = allocations
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	go s.checkBudgets(allocations)

	return entry, nil
}

// RequestAdjustment turns a post-hoc correction into an approval request and
// parks the entry in pending_review until an admin decides. A corrected
// clock-out earlier than the clock-in rolls to the next day.
func (s *TimeEntryService) RequestAdjustment(ctx context.Context, session *Session, entryID uint, newClockIn, newClockOut time.Time, newBreakMinutes int, reason string) (*model.ApprovalRequest, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.EmployeeEmail != session.Email() && !session.IsAdmin() {
		return nil, ErrForbidden
	}
	if entry.ClockOutTime == nil {
		return nil, ErrNotClockedOut
	}

	newClockOut = timecalc.RollClockOut(newClockIn, newClockOut)
	newTotal := timecalc.NetHours(newClockIn, newClockOut, newBreakMinutes)

	req := &model.ApprovalRequest{
		Type:              model.ApprovalTypeTimeCorrection,
		RequesterEmail:    session.Email(),
		RelatedEntityID:   entry.ID,
		RelatedEntityType: "TimeEntry",
		OriginalData: model.JSONMap{
			"clock_in_time":       entry.ClockInTime.Format(time.RFC3339),
			"clock_out_time":      entry.ClockOutTime.Format(time.RFC3339),
			"total_break_minutes": entry.TotalBreakMinutes,
			"total_hours":         entry.TotalHours,
		},
		RequestedData: model.JSONMap{
			"clock_in_time":       newClockIn.Format(time.RFC3339),
			"clock_out_time":      newClockOut.Format(time.RFC3339),
			"total_break_minutes": newBreakMinutes,
			"total_hours":         newTotal,
		},
		Reason: reason,
		Status: model.ApprovalStatusPending,
	}
	if err := s.approvals.Create(ctx, req); err != nil {
		return nil, err
	}

	entry.Status = model.TimeEntryStatusPendingReview
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	return req, nil
}

func (s *TimeEntryService) Get(ctx context.Context, id uint) (*model.TimeEntry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *TimeEntryService) Active(ctx context.Context, session *Session) (*model.TimeEntry, error) {
	return s.entries.ActiveByEmployee(ctx, session.Email())
}

func (s *TimeEntryService) List(ctx context.Context, filter repository.TimeEntryFilter) ([]model.TimeEntry, error) {
	return s.entries.List(ctx, filter)
}

func openBreak(entry *model.TimeEntry) *model.Break {
	for i := range entry.Breaks {
		if entry.Breaks[i].EndTime == nil {
			return &entry.Breaks[i]
		}
	}
	return nil
}

func (s *TimeEntryService) closeBreak(entry *model.TimeEntry, b *model.Break, at time.Time) {
	b.EndTime = &at
	b.DurationMinutes = int(math.Round(at.Sub(b.StartTime).Minutes()))

	durations := make([]int, 0, len(entry.Breaks))
	for _, br := range entry.Breaks {
		if br.ID == b.ID {
			durations = append(durations, b.DurationMinutes)
			continue
		}
		durations = append(durations, br.DurationMinutes)
	}
	entry.TotalBreakMinutes = timecalc.SumBreakMinutes(durations)
}

// resolveAddress reverse-geocodes best-effort within the clock event. A
// failure logs and returns an empty address.
func (s *TimeEntryService) resolveAddress(ctx context.Context, loc *Location) string {
	if s.geocoder == nil {
		return ""
	}
	geoCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	address, err := s.geocoder.ReverseGeocode(geoCtx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.log.Warn("reverse geocoding failed", zap.Error(err))
		return ""
	}
	return address
}

// checkBudgets compares accumulated allocated hours against each touched
// project's budget and notifies the project manager on overrun. Fire and
// forget: failures are logged, never surfaced.
func (s *TimeEntryService) checkBudgets(allocations []model.ProjectAllocation) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seen := map[uint]bool{}
	for _, a := range allocations {
		if seen[a.ProjectID] {
			continue
		}
		seen[a.ProjectID] = true

		project, err := s.projects.GetByID(ctx, a.ProjectID)
		if err != nil {
			s.log.Warn("budget check: project lookup failed", zap.Uint("project_id", a.ProjectID), zap.Error(err))
			continue
		}
		if project.BudgetHours == nil {
			continue
		}

		used, err := s.projects.AllocatedHours(ctx, project.ID)
		if err != nil {
			s.log.Warn("budget check: hours sum failed", zap.Uint("project_id", project.ID), zap.Error(err))
			continue
		}
		if used <= *project.BudgetHours {
			continue
		}

		n := &model.Notification{
			RecipientEmail: project.ProjectManagerEmail,
			Kind:           model.NotificationKindBudget,
			Title:          fmt.Sprintf("Project %s over budget", project.ProjectCode),
			Message:        fmt.Sprintf("%.1f of %.1f budgeted hours used", used, *project.BudgetHours),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.log.Warn("budget check: notification failed", zap.Error(err))
		}
	}
}
