package interview

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// Facts is the structured data pulled out of an interview transcript.
// Scalar fields default to "N/A" when the matching question was never
// answered; SymptomDetails accumulates one formatted Q/A string per
// symptom-probing exchange.
type Facts struct {
	Name           string
	AgeGender      string
	ChiefComplaint string
	SymptomDetails []string
	History        string
	Medications    string
	Allergies      string
}

const factUnknown = "N/A"

// scalarTrigger binds a question substring to a destination field. Triggers
// are checked in order per Q/A pair; the first matching trigger consumes the
// pair.
type scalarTrigger struct {
	substr string
	assign func(f *Facts, answer string)
}

var scalarTriggers = []scalarTrigger{
	{"please tell me your name", func(f *Facts, a string) {
		if f.Name == factUnknown {
			f.Name = a
		}
	}},
	{"age and gender", func(f *Facts, a string) {
		if f.AgeGender == factUnknown {
			f.AgeGender = normalizeAgeGender(a)
		}
	}},
	{"main symptoms", func(f *Facts, a string) {
		if f.ChiefComplaint == factUnknown {
			f.ChiefComplaint = a
		}
	}},
	{"past medical history", func(f *Facts, a string) {
		if f.History == factUnknown {
			f.History = a
		}
	}},
	{"taking any medications", func(f *Facts, a string) {
		if f.Medications == factUnknown {
			f.Medications = a
		}
	}},
	{"any allergies", func(f *Facts, a string) {
		if f.Allergies == factUnknown {
			f.Allergies = a
		}
	}},
}

// symptomProbes mark questions whose answers belong in SymptomDetails. Every
// matching pair is appended, not just the first.
var symptomProbes = []string{
	"describe the pain",
	"radiate",
	"severe is the pain",
	"severe is it",
	"shortness of breath",
	"when the pain started",
	"when did this symptom start",
	"located",
	"where exactly is",
	"throbbing",
	"sensitive to light",
	"coughing up phlegm",
	"how long have you had",
	"fever or chills",
	"nausea, vomiting",
	"resting, or only with activity",
	"suddenly, or gradually",
	"chest pain or wheezing",
	"full sentences",
	"start with an injury",
	"put weight on it",
	"swelling or bruising",
	"shoot down your leg",
	"numbness or tingling",
	"better or worse",
	"describe the symptom",
}

var (
	truncatedFemale = regexp.MustCompile(`(?i)\bfemal\b`)
	truncatedMale   = regexp.MustCompile(`(?i)\bmal\b`)

	titleCaser = cases.Title(language.English)
)

// normalizeAgeGender fixes the common truncated tokens "femal"/"mal" before
// title-casing the answer. No other field gets semantic correction.
func normalizeAgeGender(answer string) string {
	clean := strings.ToLower(answer)
	clean = truncatedFemale.ReplaceAllString(clean, "female")
	clean = truncatedMale.ReplaceAllString(clean, "male")
	return titleCaser.String(clean)
}

// ExtractFacts walks consecutive (assistant, user) pairs of the transcript
// and fills a Facts struct. It is a pure function of its input: the facts
// are re-derived on every call and nothing is cached between requests. The
// first match per scalar field wins; later pairs matching the same trigger
// are ignored.
func ExtractFacts(messages []models.ChatMessage) Facts {
	facts := Facts{
		Name:           factUnknown,
		AgeGender:      factUnknown,
		ChiefComplaint: factUnknown,
		History:        factUnknown,
		Medications:    factUnknown,
		Allergies:      factUnknown,
	}

	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role != models.RoleAssistant || messages[i+1].Role != models.RoleUser {
			continue
		}
		question := strings.ToLower(messages[i].Content)
		answer := strings.TrimSpace(messages[i+1].Content)

		if assignScalar(&facts, question, answer) {
			continue
		}
		for _, probe := range symptomProbes {
			if strings.Contains(question, probe) {
				facts.SymptomDetails = append(facts.SymptomDetails,
					fmt.Sprintf("Q: %s\nA: %s", messages[i].Content, answer))
				break
			}
		}
	}

	return facts
}

func assignScalar(facts *Facts, question, answer string) bool {
	for _, trigger := range scalarTriggers {
		if strings.Contains(question, trigger.substr) {
			trigger.assign(facts, answer)
			return true
		}
	}
	return false
}
