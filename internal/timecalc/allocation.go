package timecalc

// AllocationRow is one draft line of an allocation editing session.
type AllocationRow struct {
	ProjectID uint
	Hours     float64
	Category  string
	Notes     string
}

// AllocationSession models the editor state for splitting one entry's
// available hours across projects. The cascade on edit is deliberately
// narrow: changing row i only resets row i+1, later rows are left alone.
type AllocationSession struct {
	Available float64
	Rows      []AllocationRow
}

func NewAllocationSession(available float64) *AllocationSession {
	return &AllocationSession{Available: available}
}

// Allocated returns the sum of hours across all rows.
func (s *AllocationSession) Allocated() float64 {
	total := 0.0
	for _, r := range s.Rows {
		total += r.Hours
	}
	return total
}

// Remaining returns the hours not yet allocated. May be negative while the
// user is over-allocated; save is blocked in that state.
func (s *AllocationSession) Remaining() float64 {
	return s.Available - s.Allocated()
}

// AddRow appends a draft row pre-filled with the remaining hours, floored at
// zero.
func (s *AllocationSession) AddRow() {
	hours := s.Remaining()
	if hours < 0 {
		hours = 0
	}
	s.Rows = append(s.Rows, AllocationRow{Hours: hours})
}

// SetHours updates row i and cascades to the immediately following row: it is
// reset to whatever is left after rows 0..i, floored at zero. Rows beyond i+1
// are untouched.
func (s *AllocationSession) SetHours(i int, hours float64) {
	if i < 0 || i >= len(s.Rows) {
		return
	}
	s.Rows[i].Hours = hours

	if i+1 < len(s.Rows) {
		used := 0.0
		for j := 0; j <= i; j++ {
			used += s.Rows[j].Hours
		}
		next := s.Available - used
		if next < 0 {
			next = 0
		}
		s.Rows[i+1].Hours = next
	}
}

// Check validates the session for saving and returns the rows that would be
// persisted. Rows with no project or zero hours are dropped. Over-allocation
// is a hard error carrying the exact excess; under-allocation beyond the
// tolerance only flags that the caller must confirm.
func (s *AllocationSession) Check() (rows []AllocationRow, needsConfirm bool, err error) {
	return ValidateAllocations(s.Rows, s.Available)
}

// ValidateAllocations implements the save gate shared by the editor session
// and the service layer.
func ValidateAllocations(rows []AllocationRow, available float64) ([]AllocationRow, bool, error) {
	total := 0.0
	clean := make([]AllocationRow, 0, len(rows))
	for _, r := range rows {
		if r.ProjectID == 0 || r.Hours <= 0 {
			continue
		}
		total += r.Hours
		clean = append(clean, r)
	}

	if total > available {
		return nil, false, &OverAllocationError{Excess: total - available}
	}

	needsConfirm := available-total > AllocationTolerance
	return clean, needsConfirm, nil
}
