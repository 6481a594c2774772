package service

import (
	"context"
	"fmt"
	"time"

	"github.com/eklundh/tidflow/internal/infrastructure/embedding"
	"github.com/eklundh/tidflow/internal/infrastructure/llm"
	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
	"go.uber.org/zap"
)

// TripInput is a manually entered trip.
type TripInput struct {
	VehicleID          string    `json:"vehicle_id"`
	RegistrationNumber string    `json:"registration_number"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	DistanceKm         float64   `json:"distance_km"`
}

// TripImport is a trip pulled from the GPS provider by the sync worker.
type TripImport struct {
	ProviderTripID     string
	VehicleID          string
	RegistrationNumber string
	DriverEmail        string
	DriverName         string
	StartTime          time.Time
	EndTime            time.Time
	DistanceKm         float64
	DurationMinutes    int
	StartAddress       string
	EndAddress         string
}

// JournalService drives a journal entry through its classification and
// review lifecycle. Every transition appends to the entry's event history;
// nothing ever rewrites or removes past events.
type JournalService struct {
	journal       repository.JournalRepo
	projects      repository.ProjectRepo
	memory        repository.TripMemoryRepo
	embedder      embedding.Provider
	classifier    llm.Classifier
	notifications repository.NotificationRepo
	log           *zap.Logger
	now           func() time.Time
}

func NewJournalService(
	journal repository.JournalRepo,
	projects repository.ProjectRepo,
	memory repository.TripMemoryRepo,
	embedder embedding.Provider,
	classifier llm.Classifier,
	notifications repository.NotificationRepo,
	log *zap.Logger,
) *JournalService {
	return &JournalService{
		journal:       journal,
		projects:      projects,
		memory:        memory,
		embedder:      embedder,
		classifier:    classifier,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

// CreateManual records a trip entered by hand. It starts unclassified
// (väntar) and pending review, like a GPS import.
func (s *JournalService) CreateManual(ctx context.Context, session *Session, in TripInput) (*model.DrivingJournalEntry, error) {
	duration := int(in.EndTime.Sub(in.StartTime).Minutes())
	entry := &model.DrivingJournalEntry{
		VehicleID:          in.VehicleID,
		RegistrationNumber: in.RegistrationNumber,
		DriverEmail:        session.Email(),
		DriverName:         driverName(session),
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		DistanceKm:         in.DistanceKm,
		DurationMinutes:    duration,
		TripType:           model.TripTypePending,
		Status:             model.TripStatusPendingReview,
		Source:             model.TripSourceManual,
	}
	if err := s.journal.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventCreated, "manual entry"); err != nil {
		return nil, err
	}
	return entry, nil
}

// Import records a provider trip, skipping ids that were already imported.
// Returns the new entry, or nil when the trip was a duplicate.
func (s *JournalService) Import(ctx context.Context, in TripImport) (*model.DrivingJournalEntry, error) {
	exists, err := s.journal.HasProviderTrip(ctx, in.ProviderTripID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	entry := &model.DrivingJournalEntry{
		VehicleID:          in.VehicleID,
		RegistrationNumber: in.RegistrationNumber,
		DriverEmail:        in.DriverEmail,
		DriverName:         in.DriverName,
		StartTime:          in.StartTime,
		EndTime:            in.EndTime,
		DistanceKm:         in.DistanceKm,
		DurationMinutes:    in.DurationMinutes,
		TripType:           model.TripTypePending,
		Status:             model.TripStatusPendingReview,
		Source:             model.TripSourceGPS,
		ProviderTripID:     in.ProviderTripID,
		Purpose:            "",
	}
	if err := s.journal.Create(ctx, entry); err != nil {
		return nil, err
	}
	comment := fmt.Sprintf("gps import %s → %s", in.StartAddress, in.EndAddress)
	if err := s.appendEvent(ctx, entry.ID, "gps-sync", model.TripEventCreated, comment); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, id uint) (*model.DrivingJournalEntry, error) {
	return s.journal.GetByID(ctx, id)
}

func (s *JournalService) List(ctx context.Context, filter repository.JournalFilter) ([]model.DrivingJournalEntry, error) {
	return s.journal.List(ctx, filter)
}

// QuickClassify sets the trip type (and optional context fields) directly.
// The review status is not changed by classification alone.
func (s *JournalService) QuickClassify(ctx context.Context, session *Session, id uint, tripType, purpose, projectCode, customer string) (*model.DrivingJournalEntry, error) {
	if tripType != model.TripTypeBusiness && tripType != model.TripTypePrivate {
		return nil, ErrInvalidTransition
	}

	entry, err := s.mutableEntry(ctx, session, id, false)
	if err != nil {
		return nil, err
	}

	entry.TripType = tripType
	entry.Purpose = purpose
	entry.ProjectCode = projectCode
	entry.Customer = customer
	s.linkProject(ctx, entry)

	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventClassified, "classified as "+tripType); err != nil {
		return nil, err
	}
	return entry, nil
}

// Suggest runs the AI classifier for one entry and stores the proposal on
// the suggested_* fields. History retrieval is best-effort: when the vector
// lookup fails the classifier simply runs without context.
func (s *JournalService) Suggest(ctx context.Context, session *Session, id uint) (*model.TripSuggestion, error) {
	entry, err := s.mutableEntry(ctx, session, id, false)
	if err != nil {
		return nil, err
	}

	tripContext := renderTripContext(entry)

	var history []string
	if vector, err := s.embedder.GetVector(ctx, tripContext); err != nil {
		s.log.Warn("trip memory embedding failed", zap.Uint("entry_id", id), zap.Error(err))
	} else if similar, err := s.memory.SearchSimilar(ctx, entry.DriverEmail, 3, vector); err != nil {
		s.log.Warn("trip memory search failed", zap.Uint("entry_id", id), zap.Error(err))
	} else {
		for _, m := range similar {
			history = append(history, fmt.Sprintf("%s [%s] %s", formatTimeAgo(m.Timestamp, s.now()), m.TripType, m.Content))
		}
	}

	codes, err := s.projects.ActiveCodes(ctx)
	if err != nil {
		s.log.Warn("project code lookup failed", zap.Error(err))
	}

	suggestion, err := s.classifier.ClassifyTrip(ctx, tripContext, codes, history)
	if err != nil {
		return nil, err
	}

	entry.SuggestedTripType = suggestion.TripType
	entry.SuggestedPurpose = suggestion.Purpose
	entry.SuggestedProjectCode = suggestion.ProjectCode
	entry.SuggestedCustomer = suggestion.Customer
	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// AcceptSuggestion copies the stored (or reviewer-overridden) proposal onto
// the entry and submits it for admin review. The accepted classification is
// embedded into the trip memory in the background.
func (s *JournalService) AcceptSuggestion(ctx context.Context, session *Session, id uint, override *model.TripSuggestion) (*model.DrivingJournalEntry, error) {
	entry, err := s.mutableEntry(ctx, session, id, false)
	if err != nil {
		return nil, err
	}

	suggestion := model.TripSuggestion{
		TripType:    entry.SuggestedTripType,
		Purpose:     entry.SuggestedPurpose,
		ProjectCode: entry.SuggestedProjectCode,
		Customer:    entry.SuggestedCustomer,
	}
	if override != nil {
		suggestion = *override
	}
	if suggestion.TripType == "" {
		return nil, ErrNoSuggestion
	}

	entry.TripType = suggestion.TripType
	entry.Purpose = suggestion.Purpose
	entry.ProjectCode = suggestion.ProjectCode
	entry.Customer = suggestion.Customer
	entry.Status = model.TripStatusSubmitted
	clearSuggestion(entry)
	s.linkProject(ctx, entry)

	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventSubmitted, "suggestion accepted"); err != nil {
		return nil, err
	}

	go s.remember(entry)

	return entry, nil
}

// RejectSuggestion discards a stored proposal. The entry's own fields are
// untouched and no event is recorded; suggestions live outside the audit
// history until accepted.
func (s *JournalService) RejectSuggestion(ctx context.Context, session *Session, id uint) (*model.DrivingJournalEntry, error) {
	entry, err := s.mutableEntry(ctx, session, id, false)
	if err != nil {
		return nil, err
	}
	clearSuggestion(entry)
	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Approve finishes the review: admin only.
func (s *JournalService) Approve(ctx context.Context, session *Session, id uint, comment string) (*model.DrivingJournalEntry, error) {
	entry, err := s.mutableEntry(ctx, session, id, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entry.Status = model.TripStatusApproved
	entry.ReviewedBy = session.Email()
	entry.ReviewedAt = &now
	entry.ReviewComment = comment

	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventApproved, comment); err != nil {
		return nil, err
	}
	s.notifyDriver(ctx, entry, "Trip approved")
	return entry, nil
}

// RequestInfo sends the entry back to the driver with a question.
func (s *JournalService) RequestInfo(ctx context.Context, session *Session, id uint, comment string) (*model.DrivingJournalEntry, error) {
	if comment == "" {
		return nil, ErrReasonRequired
	}
	entry, err := s.mutableEntry(ctx, session, id, true)
	if err != nil {
		return nil, err
	}

	entry.Status = model.TripStatusRequiresInfo
	entry.ReviewComment = comment

	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventRequiresInfo, comment); err != nil {
		return nil, err
	}
	s.notifyDriver(ctx, entry, "Trip needs more information")
	return entry, nil
}

// RejectDraft reverts a classified entry to the unclassified pool: trip type
// back to väntar, purpose/project/customer stripped. This is a soft revert,
// not the terminal rejected status used for approval requests.
func (s *JournalService) RejectDraft(ctx context.Context, session *Session, id uint, comment string) (*model.DrivingJournalEntry, error) {
	entry, err := s.mutableEntry(ctx, session, id, true)
	if err != nil {
		return nil, err
	}

	entry.TripType = model.TripTypePending
	entry.Purpose = ""
	entry.ProjectCode = ""
	entry.ProjectID = nil
	entry.Customer = ""
	entry.Status = model.TripStatusPendingReview
	clearSuggestion(entry)

	if err := s.journal.Update(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventRejectedDraft, comment); err != nil {
		return nil, err
	}
	s.notifyDriver(ctx, entry, "Trip classification rejected")
	return entry, nil
}

// SoftDelete hides the entry from every listing while keeping it and its
// history fetchable by id. Admin only.
func (s *JournalService) SoftDelete(ctx context.Context, session *Session, id uint, comment string) error {
	entry, err := s.mutableEntry(ctx, session, id, true)
	if err != nil {
		return err
	}

	now := s.now()
	entry.IsDeleted = true
	entry.DeletedAt = &now
	entry.DeletedBy = session.Email()

	if err := s.journal.Update(ctx, entry); err != nil {
		return err
	}

	// Drop the trip from suggestion memory so hidden entries never resurface
	// as history for future classifications.
	if err := s.memory.Delete(ctx, entry.ID); err != nil {
		s.log.Warn("trip memory delete failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
	}

	return s.appendEvent(ctx, entry.ID, session.Email(), model.TripEventDeleted, comment)
}

func (s *JournalService) mutableEntry(ctx context.Context, session *Session, id uint, adminOnly bool) (*model.DrivingJournalEntry, error) {
	if adminOnly && !session.IsAdmin() {
		return nil, ErrForbidden
	}
	entry, err := s.journal.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.IsDeleted {
		return nil, ErrEntryDeleted
	}
	if !adminOnly && entry.DriverEmail != session.Email() && !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return entry, nil
}

func (s *JournalService) appendEvent(ctx context.Context, entryID uint, by, changeType, comment string) error {
	return s.journal.AppendEvent(ctx, &model.TripEvent{
		EntryID:    entryID,
		Timestamp:  s.now(),
		ChangedBy:  by,
		ChangeType: changeType,
		Comment:    comment,
	})
}

// linkProject resolves the project code to an id when one matches. A code
// without a matching project is kept as free text.
func (s *JournalService) linkProject(ctx context.Context, entry *model.DrivingJournalEntry) {
	if entry.ProjectCode == "" {
		entry.ProjectID = nil
		return
	}
	project, err := s.projects.GetByCode(ctx, entry.ProjectCode)
	if err != nil {
		entry.ProjectID = nil
		return
	}
	entry.ProjectID = &project.ID
}

func (s *JournalService) notifyDriver(ctx context.Context, entry *model.DrivingJournalEntry, title string) {
	n := &model.Notification{
		RecipientEmail: entry.DriverEmail,
		Kind:           model.NotificationKindTripReview,
		Title:          title,
		Message:        fmt.Sprintf("Trip %s %.1f km on %s", entry.RegistrationNumber, entry.DistanceKm, entry.StartTime.Format("2006-01-02")),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Warn("trip notification failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
	}
}

// remember stores an accepted classification in the vector memory so later
// suggestions for the same driver can stay consistent. Best-effort.
func (s *JournalService) remember(entry *model.DrivingJournalEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	description := renderTripContext(entry)
	vector, err := s.embedder.GetVector(ctx, description)
	if err != nil {
		s.log.Warn("trip memory embedding failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
		return
	}
	if err := s.memory.SaveMemory(ctx, entry.DriverEmail, entry.ID, description, entry.TripType, vector); err != nil {
		s.log.Warn("trip memory save failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
	}
}

func clearSuggestion(entry *model.DrivingJournalEntry) {
	entry.SuggestedTripType = ""
	entry.SuggestedPurpose = ""
	entry.SuggestedProjectCode = ""
	entry.SuggestedCustomer = ""
}

// renderTripContext flattens a trip into the text given to the classifier
// and the embedder.
func renderTripContext(entry *model.DrivingJournalEntry) string {
	text := fmt.Sprintf("%.1f km, %d min, %s %s to %s",
		entry.DistanceKm,
		entry.DurationMinutes,
		entry.StartTime.Format("Mon 15:04"),
		entry.StartTime.Format("2006-01-02"),
		entry.EndTime.Format("15:04"),
	)
	if entry.Purpose != "" {
		text += ", purpose: " + entry.Purpose
	}
	if entry.Customer != "" {
		text += ", customer: " + entry.Customer
	}
	return text
}

func formatTimeAgo(timestamp int64, now time.Time) string {
	if timestamp == 0 {
		return "long ago"
	}
	hours := now.Sub(time.Unix(timestamp, 0)).Hours()
	switch {
	case hours < 24:
		return "today"
	case hours < 48:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(hours/24))
	}
}

func driverName(session *Session) string {
	if session.Employee != nil {
		return session.Employee.Name
	}
	return session.User.Username
}
