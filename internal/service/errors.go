package service

import "errors"

// Validation and business errors. Controllers map these to 4xx responses;
// everything the user can fix before a write is caught here, before any
// database call.
var (
	ErrProjectRequired      = errors.New("must select project")
	ErrAlreadyClockedIn     = errors.New("an active time entry already exists")
	ErrNoActiveEntry        = errors.New("no active time entry")
	ErrNotClockedOut        = errors.New("entry has no clock-out time yet")
	ErrAllocationRequired   = errors.New("at least one allocation with a project and hours is required")
	ErrConfirmationRequired = errors.New("allocated hours do not match available hours, confirmation required")
	ErrReasonRequired       = errors.New("a reason is required")
	ErrForbidden            = errors.New("not allowed")
	ErrEntryDeleted         = errors.New("entry is deleted")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrNoSuggestion         = errors.New("entry has no pending suggestion")
)
