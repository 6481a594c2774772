package service

import (
	"context"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"github.com/eklundh/tidflow/internal/timecalc"
	"go.uber.org/zap"
)

// ApprovalService resolves pending change requests. Approving a time
// correction applies the requested snapshot to the entry and closes the
// request in one transaction, so a crash mid-approval leaves the request
// pending and re-drivable.
type ApprovalService struct {
	approvals     repository.ApprovalRepo
	entries       repository.TimeEntryRepo
	notifications repository.NotificationRepo
	log           *zap.Logger
	now           func() time.Time
}

func NewApprovalService(
	approvals repository.ApprovalRepo,
	entries repository.TimeEntryRepo,
	notifications repository.NotificationRepo,
	log *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		approvals:     approvals,
		entries:       entries,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

func (s *ApprovalService) ListPending(ctx context.Context, session *Session) ([]model.ApprovalRequest, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.approvals.ListPending(ctx)
}

func (s *ApprovalService) ListMine(ctx context.Context, session *Session) ([]model.ApprovalRequest, error) {
	return s.approvals.ListByRequester(ctx, session.Email())
}

// Approve applies the requested change to its target and closes the request.
func (s *ApprovalService) Approve(ctx context.Context, session *Session, requestID uint, comment string) (*model.ApprovalRequest, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	req, err := s.approvals.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ApprovalStatusPending {
		return nil, ErrInvalidTransition
	}
	if req.Type != model.ApprovalTypeTimeCorrection {
		return nil, ErrInvalidTransition
	}

	entry, err := s.entries.GetByID(ctx, req.RelatedEntityID)
	if err != nil {
		return nil, err
	}
	if err := applyTimeCorrection(entry, req); err != nil {
		return nil, err
	}

	now := s.now()
	entry.EditedBy = req.RequesterEmail
	entry.EditedAt = &now
	entry.EditReason = req.Reason
	entry.Status = model.TimeEntryStatusCompleted

	req.Status = model.ApprovalStatusApproved
	req.ReviewedBy = session.Email()
	req.ReviewedAt = &now
	req.ReviewComment = comment

	if err := s.approvals.ApplyTimeCorrection(ctx, req, entry); err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, req, "Time correction approved")
	return req, nil
}

// Reject closes the request without touching the entry, which returns to
// completed.
func (s *ApprovalService) Reject(ctx context.Context, session *Session, requestID uint, comment string) (*model.ApprovalRequest, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	req, err := s.approvals.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != model.ApprovalStatusPending {
		return nil, ErrInvalidTransition
	}

	entry, err := s.entries.GetByID(ctx, req.RelatedEntityID)
	if err != nil {
		return nil, err
	}
	entry.Status = model.TimeEntryStatusCompleted
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, err
	}

	now := s.now()
	req.Status = model.ApprovalStatusRejected
	req.ReviewedBy = session.Email()
	req.ReviewedAt = &now
	req.ReviewComment = comment
	if err := s.approvals.Update(ctx, req); err != nil {
		return nil, err
	}
	s.notifyRequester(ctx, req, "Time correction rejected")
	return req, nil
}

// applyTimeCorrection copies the requested snapshot onto the entry and
// recomputes the derived hours. Clock-out earlier than clock-in is rolled
// to the next day, same as at the clock itself.
func applyTimeCorrection(entry *model.TimeEntry, req *model.ApprovalRequest) error {
	clockIn, err := time.Parse(time.RFC3339, snapshotString(req.RequestedData, "clock_in_time"))
	if err != nil {
		return err
	}
	clockOut, err := time.Parse(time.RFC3339, snapshotString(req.RequestedData, "clock_out_time"))
	if err != nil {
		return err
	}
	clockOut = timecalc.RollClockOut(clockIn, clockOut)

	entry.ClockInTime = clockIn
	entry.ClockOutTime = &clockOut
	entry.TotalBreakMinutes = snapshotInt(req.RequestedData, "total_break_minutes")
	entry.TotalHours = timecalc.NetHours(clockIn, clockOut, entry.TotalBreakMinutes)
	return nil
}

func snapshotString(m model.JSONMap, key string) string {
	s, _ := m[key].(string)
	return s
}

// snapshotInt handles both the pre-persist int and the json-decoded float64.
func snapshotInt(m model.JSONMap, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (s *ApprovalService) notifyRequester(ctx context.Context, req *model.ApprovalRequest, title string) {
	n := &model.Notification{
		RecipientEmail: req.RequesterEmail,
		Kind:           model.NotificationKindApproval,
		Title:          title,
		Message:        req.ReviewComment,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("approval notification failed", zap.Uint("request_id", req.ID), zap.Error(err))
	}
}
