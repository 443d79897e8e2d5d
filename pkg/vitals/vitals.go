package vitals

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Flag colors, ordered by severity.
const (
	FlagGreen  = "GREEN_STABLE"
	FlagYellow = "YELLOW_WARNING"
	FlagOrange = "ORANGE_DANGER"
	FlagRed    = "RED_CRITICAL"
	FlagError  = "ERROR"
)

// Baseline holds the patient-specific thresholds alerts are judged
// against. Field names follow the context file format.
type Baseline struct {
	HRMax    int `json:"HR_MAX"`
	BPSysMax int `json:"BP_SYS_MAX"`
}

// PatientContext is one entry of the context database loaded at startup.
type PatientContext struct {
	PatientID string   `json:"patient_id"`
	Name      string   `json:"name,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Baseline  Baseline `json:"custom_vitals_baseline"`
}

// Reading is one vitals sample from a monitoring device.
type Reading struct {
	PatientID string `json:"patient_id" binding:"required"`
	HR        int    `json:"hr"`
	BPSys     int    `json:"bp_sys"`
	BPDia     int    `json:"bp_dia"`
}

// LogEntry is a stored reading with its arrival time.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	HR        int    `json:"hr"`
	BPSys     int    `json:"bp_sys"`
	BPDia     int    `json:"bp_dia"`
}

// Alert is the tiered analysis result for a single reading.
type Alert struct {
	PatientID      string  `json:"patient_id,omitempty"`
	FlagColor      string  `json:"flag_color"`
	Justification  string  `json:"justification"`
	VitalsReceived Reading `json:"vitals_received,omitempty"`
}

// Monitor analyzes incoming readings against per-patient baselines and
// keeps an in-memory history per patient.
type Monitor struct {
	mu       sync.RWMutex
	contexts map[string]PatientContext
	logs     map[string][]LogEntry
	now      func() time.Time
}

func NewMonitor(contexts []PatientContext) *Monitor {
	byID := make(map[string]PatientContext, len(contexts))
	for _, c := range contexts {
		byID[c.PatientID] = c
	}
	return &Monitor{contexts: byID, logs: make(map[string][]LogEntry), now: time.Now}
}

// LoadContexts reads the patient context database from a JSON file.
// A missing file is not fatal; every reading then flags ERROR.
func LoadContexts(path string) []PatientContext {
	data, err := os.ReadFile(path)
	if err != nil {
		klog.Warningf("patient context file %s not readable: %v; all readings will flag ERROR", path, err)
		return nil
	}
	var contexts []PatientContext
	if err := json.Unmarshal(data, &contexts); err != nil {
		klog.Warningf("patient context file %s malformed: %v", path, err)
		return nil
	}
	return contexts
}

// Receive logs the reading and returns its tiered alert.
func (m *Monitor) Receive(r Reading) Alert {
	m.mu.Lock()
	m.logs[r.PatientID] = append(m.logs[r.PatientID], LogEntry{
		Timestamp: m.now().Format("2006-01-02 15:04:05"),
		HR:        r.HR,
		BPSys:     r.BPSys,
		BPDia:     r.BPDia,
	})
	total := len(m.logs[r.PatientID])
	m.mu.Unlock()

	klog.V(2).Infof("logged vitals for %s, total entries: %d", r.PatientID, total)
	return m.analyze(r)
}

func (m *Monitor) analyze(r Reading) Alert {
	m.mu.RLock()
	ctx, ok := m.contexts[r.PatientID]
	m.mu.RUnlock()
	if !ok {
		return Alert{
			FlagColor:     FlagError,
			Justification: fmt.Sprintf("Patient %s context missing from database.", r.PatientID),
		}
	}

	base := ctx.Baseline
	flag := FlagGreen
	justification := "Vitals are within acceptable patient-specific range. Monitoring continues."

	switch {
	case r.HR > base.HRMax+10 || r.BPSys > base.BPSysMax+15:
		flag = FlagRed
		justification = fmt.Sprintf("EMERGENCY TIER 4: HR (%d bpm) or Systolic BP (%d mmHg) critically exceeds safe limits. IMMEDIATE intervention required.", r.HR, r.BPSys)
	case r.HR > base.HRMax+2 || r.BPSys > base.BPSysMax+5:
		flag = FlagOrange
		justification = fmt.Sprintf("DANGER TIER 3: HR (%d bpm) or Systolic BP (%d mmHg) is significantly elevated. Notify care team for urgent re-assessment.", r.HR, r.BPSys)
	case r.HR > base.HRMax || r.BPSys > base.BPSysMax:
		flag = FlagYellow
		justification = fmt.Sprintf("WARNING TIER 2: Vitals (%d bpm / %d mmHg) have exceeded managed baseline. Monitor closely and confirm reading in 5 minutes.", r.HR, r.BPSys)
	}

	return Alert{
		PatientID:      r.PatientID,
		FlagColor:      flag,
		Justification:  justification,
		VitalsReceived: r,
	}
}

// History returns a copy of the stored readings for a patient. An unknown
// patient yields an empty history, not an error.
func (m *Monitor) History(patientID string) []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LogEntry(nil), m.logs[patientID]...)
}
