package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eklundh/tidflow/internal/model"
	"go.uber.org/zap"
)

type approvalFixture struct {
	svc       *ApprovalService
	entrySvc  *TimeEntryService
	entries   *fakeTimeEntryRepo
	approvals *fakeApprovalRepo
	notify    *fakeNotificationRepo
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	f := &approvalFixture{
		entries:   newFakeTimeEntryRepo(),
		approvals: newFakeApprovalRepo(),
		notify:    &fakeNotificationRepo{},
	}
	f.svc = NewApprovalService(f.approvals, f.entries, f.notify, zap.NewNop())
	f.entrySvc = NewTimeEntryService(f.entries, newFakeProjectRepo(), f.approvals, f.notify, nil, zap.NewNop())
	return f
}

// pendingCorrection creates a completed 08:00-16:30 entry and a correction
// request moving it to 07:00-15:00 with a 30 minute break.
func (f *approvalFixture) pendingCorrection(t *testing.T, session *Session) (*model.TimeEntry, *model.ApprovalRequest) {
	t.Helper()
	entry := completedEntry(t, f.entrySvc, session)
	req, err := f.entrySvc.RequestAdjustment(context.Background(), session, entry.ID, at(7, 0), at(15, 0), 30, "started early")
	if err != nil {
		t.Fatalf("request adjustment: %v", err)
	}
	return entry, req
}

func TestApproveAppliesCorrection(t *testing.T) {
	f := newApprovalFixture(t)
	employee := testSession("anna@x.se", false)
	admin := testSession("boss@x.se", true)
	entry, req := f.pendingCorrection(t, employee)

	f.svc.now = func() time.Time { return at(17, 0) }
	decided, err := f.svc.Approve(context.Background(), admin, req.ID, "ok")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != model.ApprovalStatusApproved {
		t.Fatalf("request status = %q", decided.Status)
	}
	if decided.ReviewedBy != "boss@x.se" {
		t.Fatalf("reviewed by = %q", decided.ReviewedBy)
	}

	applied := f.approvals.applied
	if applied == nil {
		t.Fatal("entry and request must be persisted together")
	}
	if applied.ID != entry.ID {
		t.Fatalf("wrong entry applied: %d", applied.ID)
	}
	if !applied.ClockInTime.Equal(at(7, 0)) {
		t.Fatalf("clock in = %v", applied.ClockInTime)
	}
	// 07:00-15:00 minus 30 min break
	if applied.TotalHours != 7.5 {
		t.Fatalf("total hours = %v, want 7.5", applied.TotalHours)
	}
	if applied.Status != model.TimeEntryStatusCompleted {
		t.Fatalf("entry status = %q", applied.Status)
	}
	if applied.EditedBy != "anna@x.se" || applied.EditReason != "started early" {
		t.Fatalf("audit fields not set: %+v", applied)
	}

	notifications, _ := f.notify.ListByRecipient(context.Background(), "anna@x.se", false)
	if len(notifications) != 1 {
		t.Fatalf("requester should be notified, got %d", len(notifications))
	}
}

func TestApproveTwiceRejected(t *testing.T) {
	f := newApprovalFixture(t)
	admin := testSession("boss@x.se", true)
	_, req := f.pendingCorrection(t, testSession("anna@x.se", false))

	if _, err := f.svc.Approve(context.Background(), admin, req.ID, ""); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	_, err := f.svc.Approve(context.Background(), admin, req.ID, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApproveRequiresAdminRole(t *testing.T) {
	f := newApprovalFixture(t)
	employee := testSession("anna@x.se", false)
	_, req := f.pendingCorrection(t, employee)

	_, err := f.svc.Approve(context.Background(), employee, req.ID, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRejectRestoresEntry(t *testing.T) {
	f := newApprovalFixture(t)
	employee := testSession("anna@x.se", false)
	entry, req := f.pendingCorrection(t, employee)

	decided, err := f.svc.Reject(context.Background(), testSession("boss@x.se", true), req.ID, "no evidence")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if decided.Status != model.ApprovalStatusRejected {
		t.Fatalf("request status = %q", decided.Status)
	}

	stored, _ := f.entries.GetByID(context.Background(), entry.ID)
	if stored.Status != model.TimeEntryStatusCompleted {
		t.Fatalf("entry status = %q, want completed", stored.Status)
	}
	// The original times survive a rejection.
	if !stored.ClockInTime.Equal(at(8, 0)) {
		t.Fatalf("clock in = %v", stored.ClockInTime)
	}
}

func TestListPendingAdminOnly(t *testing.T) {
	f := newApprovalFixture(t)
	employee := testSession("anna@x.se", false)
	f.pendingCorrection(t, employee)

	if _, err := f.svc.ListPending(context.Background(), employee); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	pending, err := f.svc.ListPending(context.Background(), testSession("boss@x.se", true))
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("got %d pending requests, want 1", len(pending))
	}

	mine, err := f.svc.ListMine(context.Background(), employee)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("got %d own requests, want 1", len(mine))
	}
}
