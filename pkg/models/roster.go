package models

// Shift type names accepted by the roster generator. Anything else in a
// request's quota map is ignored.
const (
	ShiftMorning   = "Morning"
	ShiftAfternoon = "Afternoon"
	ShiftNight     = "Night"

	// Reserved pseudo-types for non-working entries.
	ShiftLeave = "Leave"
	ShiftRest  = "Rest"
)

// ShiftEntry is one persisted roster line: a working shift, a leave day or a
// mandatory rest day for a single staff member on a single date.
type ShiftEntry struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	StaffName   string `gorm:"not null" json:"staff_name"`
	Role        string `json:"role"`
	ShiftDate   string `gorm:"index;not null" json:"shift_date"`
	ShiftType   string `json:"shift_type"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	Notes       string `json:"notes"`
}

// RosterRequest describes one generation run: who is available, the window
// to fill and how many people each shift type needs per day.
type RosterRequest struct {
	StaffNames   []string       `json:"staff_names" binding:"required"`
	StartDate    string         `json:"start_date" binding:"required"`
	NumDays      int            `json:"num_days"`
	ShiftsPerDay map[string]int `json:"shifts_per_day"`
}

// RosterResult is returned by the generator: the freshly created entries for
// the window plus a human-readable count message.
type RosterResult struct {
	Message    string       `json:"message"`
	NewEntries []ShiftEntry `json:"new_entries_added"`
}
