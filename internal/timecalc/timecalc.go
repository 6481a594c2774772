// Package timecalc holds the pure time arithmetic behind the allocation
// workflow. Nothing in here touches the database or the clock.
package timecalc

import (
	"fmt"
	"time"
)

const (
	// LunchThresholdHours and LunchDeductionHours implement the unpaid lunch
	// rule: a day of 8 hours or more has one hour subtracted before the time
	// is offered for project allocation. Stored totals are never adjusted.
	LunchThresholdHours = 8.0
	LunchDeductionHours = 1.0

	// AllocationTolerance is the slack, in hours, under which an allocation
	// sum is considered to match the available time.
	AllocationTolerance = 0.01
)

// NetHours computes the stored total for a session: wall-clock duration minus
// recorded break time, floored at zero.
func NetHours(clockIn, clockOut time.Time, totalBreakMinutes int) float64 {
	net := clockOut.Sub(clockIn).Hours() - float64(totalBreakMinutes)/60.0
	if net < 0 {
		return 0
	}
	return net
}

// AllocatableHours applies the lunch deduction to a session's total hours.
// The result is what the user is asked to distribute across projects.
func AllocatableHours(totalHours float64) float64 {
	if totalHours >= LunchThresholdHours {
		return totalHours - LunchDeductionHours
	}
	return totalHours
}

// RollClockOut resolves a corrected clock-out that is earlier than the
// clock-in by rolling it to the next day (night shifts crossing midnight).
func RollClockOut(clockIn, clockOut time.Time) time.Time {
	if clockOut.Before(clockIn) {
		return clockOut.AddDate(0, 0, 1)
	}
	return clockOut
}

// SumBreakMinutes totals a list of break durations.
func SumBreakMinutes(durations []int) int {
	total := 0
	for _, d := range durations {
		total += d
	}
	return total
}

// DateKey formats a timestamp as the calendar-day key used for grouping.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// OverAllocationError reports by how much an allocation attempt exceeds the
// available hours.
type OverAllocationError struct {
	Excess float64
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("allocated hours exceed available hours by %.2fh", e.Excess)
}
