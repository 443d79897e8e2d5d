package roster

import (
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

const dateLayout = "2006-01-02"

// Store is the persistence collaborator for roster entries. The generator
// reads the full roster, drops everything inside the requested window and
// writes back the union of retained and newly generated entries in one
// batch. Writes are all-or-nothing; serializing concurrent generation runs
// is the caller's job.
type Store interface {
	ListEntries() ([]models.ShiftEntry, error)
	ReplaceEntries(entries []models.ShiftEntry) error
}

// shiftDef fixes the start/end time-of-day per working shift type. The
// slice order is also the per-day assignment order; quota map keys that are
// not listed here are ignored.
type shiftDef struct {
	name  string
	start string
	end   string
}

var shiftDefs = []shiftDef{
	{models.ShiftMorning, "07:00", "15:00"},
	{models.ShiftAfternoon, "15:00", "23:00"},
	{models.ShiftNight, "23:00", "07:00"},
}

// lastShift remembers the most recent worked shift per staff member, used
// for the no-night-to-morning rule across day (and window) boundaries.
type lastShift struct {
	date      time.Time
	shiftType string
}

// Generator builds rule-valid rosters. All randomness (leave-day draws and
// candidate shuffles) comes from a single injected source so runs are
// reproducible under test; draws happen in a strict sequential order (per
// staff, per week for leave, then per date, per shift type for assignment).
type Generator struct {
	store Store
	rng   *rand.Rand
}

// NewGenerator wires a Generator to its store. A nil rng falls back to a
// time-seeded source.
func NewGenerator(store Store, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{store: store, rng: rng}
}

// Generate runs one roster generation pass for the request window. Existing
// entries dated inside the window are discarded and replaced wholesale;
// entries outside it are preserved. Per-shift shortfalls are accepted and
// logged, never fatal. The request is assumed to be pre-validated.
func (g *Generator) Generate(req models.RosterRequest) (*models.RosterResult, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q: %w", req.StartDate, err)
	}

	dates := make([]time.Time, req.NumDays)
	windowSet := make(map[string]bool, req.NumDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		windowSet[dates[i].Format(dateLayout)] = true
	}

	staff := req.StaffNames

	// One random leave day per staff member per week chunk, drawn up front.
	// A draw landing past the end of a short final chunk simply means no
	// leave in that chunk.
	leaveDays := make(map[string]map[string]bool, len(staff))
	numWeeks := (req.NumDays + 6) / 7
	for _, name := range staff {
		if leaveDays[name] == nil {
			leaveDays[name] = make(map[string]bool)
		}
		for week := 0; week < numWeeks; week++ {
			dayIndex := week*7 + g.rng.Intn(7)
			if dayIndex < req.NumDays {
				leaveDays[name][dates[dayIndex].Format(dateLayout)] = true
			}
		}
	}

	existing, err := g.store.ListEntries()
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	// Full overwrite of the window: only entries outside it survive.
	retained := make([]models.ShiftEntry, 0, len(existing))
	for _, entry := range existing {
		if !windowSet[entry.ShiftDate] {
			retained = append(retained, entry)
		}
	}

	lastShifts := g.lastShiftsBefore(retained, req.StartDate)

	nextID := 1
	for _, entry := range retained {
		if entry.ID >= nextID {
			nextID = entry.ID + 1
		}
	}

	consecutive := make(map[string]int, len(staff))
	newEntries := make([]models.ShiftEntry, 0, req.NumDays*len(staff))

	for _, day := range dates {
		dateStr := day.Format(dateLayout)
		yesterday := day.AddDate(0, 0, -1)

		workedNightYesterday := make(map[string]bool)
		mustRest := make(map[string]bool)
		onLeave := make(map[string]bool)
		for _, name := range staff {
			if last, ok := lastShifts[name]; ok &&
				last.shiftType == models.ShiftNight && sameDay(last.date, yesterday) {
				workedNightYesterday[name] = true
			}
			if consecutive[name] >= 6 {
				mustRest[name] = true
			}
			if leaveDays[name][dateStr] {
				onLeave[name] = true
			}
		}

		assignedToday := make(map[string]string, len(staff))

		// Leave first; it takes precedence over a mandatory rest day.
		for _, name := range staff {
			if !onLeave[name] || assignedToday[name] != "" {
				continue
			}
			newEntries = append(newEntries, offDutyEntry(nextID, name, dateStr,
				models.ShiftLeave, "Auto-Generated Leave"))
			assignedToday[name] = models.ShiftLeave
			nextID++
		}
		for _, name := range staff {
			if !mustRest[name] || assignedToday[name] != "" {
				continue
			}
			newEntries = append(newEntries, offDutyEntry(nextID, name, dateStr,
				models.ShiftRest, "Mandatory Rest Day (6+1)"))
			assignedToday[name] = models.ShiftRest
			nextID++
		}

		for _, def := range shiftDefs {
			needed := req.ShiftsPerDay[def.name]
			if needed <= 0 {
				continue
			}

			var eligible []string
			for _, name := range staff {
				if onLeave[name] || mustRest[name] || assignedToday[name] != "" {
					continue
				}
				if def.name == models.ShiftMorning && workedNightYesterday[name] {
					continue
				}
				eligible = append(eligible, name)
			}
			g.rng.Shuffle(len(eligible), func(i, j int) {
				eligible[i], eligible[j] = eligible[j], eligible[i]
			})

			assigned := 0
			for _, name := range eligible {
				if assigned >= needed {
					break
				}
				// Duplicate names in the staff list appear more than once
				// in the candidate pool; one entry per person per date.
				if assignedToday[name] != "" {
					continue
				}
				newEntries = append(newEntries, models.ShiftEntry{
					ID:          nextID,
					StaffName:   name,
					Role:        "Staff",
					ShiftDate:   dateStr,
					ShiftType:   def.name,
					StartTime:   def.start,
					EndTime:     def.end,
					IsAvailable: true,
					Notes:       "Auto-Generated",
				})
				lastShifts[name] = lastShift{date: day, shiftType: def.name}
				assignedToday[name] = def.name
				consecutive[name]++
				assigned++
				nextID++
			}

			if assigned < needed {
				klog.Warningf("roster: could not fill %s shift on %s: needed %d, found %d",
					def.name, dateStr, needed, assigned)
			}
		}

		// Leave, rest and idle days all break the consecutive-work streak.
		for _, name := range staff {
			switch assignedToday[name] {
			case "", models.ShiftLeave, models.ShiftRest:
				consecutive[name] = 0
			}
		}
	}

	if err := g.store.ReplaceEntries(append(retained, newEntries...)); err != nil {
		return nil, fmt.Errorf("persist roster: %w", err)
	}

	return &models.RosterResult{
		Message: fmt.Sprintf("Successfully generated and added %d new shifts (including leave/rest days).",
			len(newEntries)),
		NewEntries: newEntries,
	}, nil
}

// lastShiftsBefore reconstructs each staff member's most recent worked shift
// from pre-window history, so the night-to-morning rule holds on the
// window's first day.
func (g *Generator) lastShiftsBefore(entries []models.ShiftEntry, startDate string) map[string]lastShift {
	lastShifts := make(map[string]lastShift)
	for _, entry := range entries {
		if entry.ShiftDate >= startDate {
			continue
		}
		if entry.ShiftType == models.ShiftLeave || entry.ShiftType == models.ShiftRest {
			continue
		}
		date, err := time.Parse(dateLayout, entry.ShiftDate)
		if err != nil {
			continue
		}
		if prev, ok := lastShifts[entry.StaffName]; !ok || date.After(prev.date) {
			lastShifts[entry.StaffName] = lastShift{date: date, shiftType: entry.ShiftType}
		}
	}
	return lastShifts
}

func offDutyEntry(id int, name, date, shiftType, notes string) models.ShiftEntry {
	return models.ShiftEntry{
		ID:          id,
		StaffName:   name,
		Role:        "Staff",
		ShiftDate:   date,
		ShiftType:   shiftType,
		StartTime:   "00:00",
		EndTime:     "00:00",
		IsAvailable: false,
		Notes:       notes,
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
