package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// validateRosterRequest checks a generation request and fills in defaults
// for the optional fields. Quotas that exceed the staff pool are rejected
// up front so the generator never has to invent people.
func validateRosterRequest(req *models.RosterRequest) error {
	if len(req.StaffNames) == 0 {
		return errors.New("at least one staff name is required")
	}
	// Repeated names are allowed; each list position counts toward the
	// daily headcount, and the generator emits at most one entry per
	// person per date.
	for _, name := range req.StaffNames {
		if name == "" {
			return errors.New("staff names must be non-empty")
		}
	}

	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return errors.New("invalid start_date format, use YYYY-MM-DD")
	}

	if req.NumDays == 0 {
		req.NumDays = 14
	}
	if req.NumDays < 1 || req.NumDays > 30 {
		return errors.New("num_days must be between 1 and 30")
	}

	if len(req.ShiftsPerDay) == 0 {
		req.ShiftsPerDay = map[string]int{
			models.ShiftMorning:   1,
			models.ShiftAfternoon: 1,
			models.ShiftNight:     1,
		}
	}
	total := 0
	for shiftType, count := range req.ShiftsPerDay {
		if count < 0 {
			return fmt.Errorf("shift count for %s must not be negative", shiftType)
		}
		total += count
	}
	if total > len(req.StaffNames) {
		return fmt.Errorf("daily shift demand (%d) exceeds available staff (%d)", total, len(req.StaffNames))
	}
	return nil
}
