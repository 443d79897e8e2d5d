package interview

import (
	"fmt"
	"strings"

	"github.com/sahilverma/nursestation-go/pkg/models"
)

// State identifies the interview step implied by the last question the
// assistant asked. The driver keeps no session state: the current State is
// re-derived from the transcript on every call.
type State int

const (
	StateUnknown State = iota
	StateIntro
	StateAskedName
	StateAskedAgeGender
	StateAskedSymptoms

	// Chest pain deep dive.
	StateChestDescribe
	StateChestRadiate
	StateChestSeverity
	StateChestAssociated
	StateChestOnset

	// Headache deep dive.
	StateHeadacheLocation
	StateHeadacheCharacter
	StateHeadacheSensitivity
	StateHeadacheSeverity

	// Cough deep dive.
	StateCoughCharacter
	StateCoughDuration
	StateCoughFever
	StateCoughBreathing

	// Abdominal pain deep dive.
	StateAbdomenLocation
	StateAbdomenCharacter
	StateAbdomenAssociated
	StateAbdomenSeverity

	// Shortness of breath deep dive.
	StateSOBTrigger
	StateSOBOnset
	StateSOBAssociated
	StateSOBSpeech

	// Ankle pain deep dive.
	StateAnkleInjury
	StateAnkleWeight
	StateAnkleSwelling
	StateAnkleSeverity

	// Back pain deep dive.
	StateBackLocation
	StateBackCharacter
	StateBackRadiation
	StateBackNumbness
	StateBackModifiers

	// Generic fallback deep dive.
	StateOtherOnset
	StateOtherSeverity
	StateOtherDescribe

	// Shared medical-history tail.
	StateAskedHistory
	StateAskedMedications
	StateAskedAllergies
	StateAskedFamilyHistory
)

// anyCategory marks a trigger that applies regardless of category.
const anyCategory = Category("")

// stateTrigger maps a substring of the last assistant question (plus an
// optional category gate) to a State. Triggers are evaluated in order and
// the first match wins. Some question texts overlap across branches
// ("describe the pain", "severe is the pain"); those entries carry a
// category gate, and categories without a gated entry deliberately fall
// through to StateUnknown. That misroute mirrors the behaviour of the
// original decision table and is covered by tests rather than papered over.
type stateTrigger struct {
	substr   string
	category Category
	state    State
}

var stateTriggers = []stateTrigger{
	{"to start, please type", anyCategory, StateIntro},
	{"please tell me your name", anyCategory, StateAskedName},
	{"age and gender", anyCategory, StateAskedAgeGender},
	{"main symptoms", anyCategory, StateAskedSymptoms},

	// Chest pain.
	{"describe the pain", CategoryChestPain, StateChestDescribe},
	{"radiate to your arm, jaw", anyCategory, StateChestRadiate},
	{"severe is the pain", CategoryChestPain, StateChestSeverity},
	{"shortness of breath, nausea", anyCategory, StateChestAssociated},
	{"when the pain started", anyCategory, StateChestOnset},

	// Headache.
	{"headache located", anyCategory, StateHeadacheLocation},
	{"throbbing", anyCategory, StateHeadacheCharacter},
	{"sensitive to light", anyCategory, StateHeadacheSensitivity},
	{"severe is the pain", CategoryHeadache, StateHeadacheSeverity},

	// Cough.
	{"coughing up phlegm", anyCategory, StateCoughCharacter},
	{"how long have you had the cough", anyCategory, StateCoughDuration},
	{"fever or chills", anyCategory, StateCoughFever},
	{"shortness of breath with the cough", anyCategory, StateCoughBreathing},

	// Abdominal pain.
	{"where exactly is the pain", anyCategory, StateAbdomenLocation},
	{"describe the pain", CategoryAbdominalPain, StateAbdomenCharacter},
	{"nausea, vomiting", anyCategory, StateAbdomenAssociated},
	{"severe is the pain", CategoryAbdominalPain, StateAbdomenSeverity},

	// Shortness of breath.
	{"resting, or only with activity", anyCategory, StateSOBTrigger},
	{"suddenly, or gradually", anyCategory, StateSOBOnset},
	{"chest pain or wheezing", anyCategory, StateSOBAssociated},
	{"full sentences", anyCategory, StateSOBSpeech},

	// Ankle pain.
	{"start with an injury", anyCategory, StateAnkleInjury},
	{"put weight on it", anyCategory, StateAnkleWeight},
	{"swelling or bruising", anyCategory, StateAnkleSwelling},
	{"severe is the pain", CategoryAnklePain, StateAnkleSeverity},

	// Back pain.
	{"where exactly is the back pain", anyCategory, StateBackLocation},
	{"describe the pain", CategoryBackPain, StateBackCharacter},
	{"shoot down your leg", anyCategory, StateBackRadiation},
	{"numbness or tingling", anyCategory, StateBackNumbness},
	{"better or worse", anyCategory, StateBackModifiers},

	// Generic fallback chain.
	{"when did this symptom start", anyCategory, StateOtherOnset},
	{"severe is it", CategoryOther, StateOtherSeverity},
	{"describe the symptom", anyCategory, StateOtherDescribe},

	// Shared tail.
	{"past medical history", anyCategory, StateAskedHistory},
	{"taking any medications", anyCategory, StateAskedMedications},
	{"any allergies", anyCategory, StateAskedAllergies},
	{"family members", anyCategory, StateAskedFamilyHistory},
}

// deriveState maps the lower-cased last assistant question to a State given
// the current symptom category.
func deriveState(lastQuestion string, category Category) State {
	for _, t := range stateTriggers {
		if t.category != anyCategory && t.category != category {
			continue
		}
		if strings.Contains(lastQuestion, t.substr) {
			return t.state
		}
	}
	return StateUnknown
}

// firstDeepDive selects the opening question of each category's deep dive,
// asked right after the chief complaint is classified.
var firstDeepDive = map[Category]string{
	CategoryChestPain:     "Can you describe the pain? (e.g., Is it sharp, dull, crushing, or a pressure?)",
	CategoryHeadache:      "Where exactly is the headache located? (e.g., one side, all over, behind the eyes)",
	CategoryCough:         "Is the cough dry, or are you coughing up phlegm?",
	CategoryAbdominalPain: "Where exactly is the pain? (e.g., upper, lower, left, right)",
	CategorySOB:           "Does this happen when you are resting, or only with activity?",
	CategoryAnklePain:     "Did this pain start with an injury, like twisting it?",
	CategoryBackPain:      "Where exactly is the back pain? (e.g., upper, lower, one side)",
	CategoryOther:         "When did this symptom start?",
}

const historyChestOther = "To get a complete picture, do you have any past medical history, like diabetes or high blood pressure?"

// followUp is the transition table: for each recognised state, the question
// that advances the interview by one step. Deep-dive chains converge on the
// shared history/medications/allergies/family-history tail.
var followUp = map[State]string{
	StateChestDescribe:   "Does the pain radiate to your arm, jaw, or back?",
	StateChestRadiate:    "On a scale of 1-10, how severe is the pain?",
	StateChestSeverity:   "Do you have any shortness of breath, nausea, or sweating with it?",
	StateChestAssociated: "What were you doing when the pain started?",
	StateChestOnset:      historyChestOther,

	StateHeadacheLocation:    "Is the headache throbbing, or more like a constant pressure?",
	StateHeadacheCharacter:   "Are you sensitive to light or sound, or feeling any nausea?",
	StateHeadacheSensitivity: "On a scale of 1-10, how severe is the pain?",
	StateHeadacheSeverity: "To get a complete picture, do you have any past medical history, " +
		"like migraines or high blood pressure?",

	StateCoughCharacter: "How long have you had the cough?",
	StateCoughDuration:  "Do you have a fever or chills with it?",
	StateCoughFever:     "Do you have any shortness of breath with the cough?",
	StateCoughBreathing: "To get a complete picture, do you have any past medical history, like asthma or COPD?",

	StateAbdomenLocation:   "Can you describe the pain? (e.g., cramping, sharp, burning)",
	StateAbdomenCharacter:  "Do you have any nausea, vomiting, or changes in your bowel habits?",
	StateAbdomenAssociated: "On a scale of 1-10, how severe is the pain?",
	StateAbdomenSeverity:   "To get a complete picture, do you have any past medical history, like ulcers or gallstones?",

	StateSOBTrigger:    "Did the breathlessness come on suddenly, or gradually over time?",
	StateSOBOnset:      "Do you have any chest pain or wheezing with it?",
	StateSOBAssociated: "Are you able to speak in full sentences, or do you need to pause for breath?",
	StateSOBSpeech:     "To get a complete picture, do you have any past medical history, like asthma or heart problems?",

	StateAnkleInjury:   "Are you able to put weight on it?",
	StateAnkleWeight:   "Is there any swelling or bruising?",
	StateAnkleSwelling: "On a scale of 1-10, how severe is the pain?",
	StateAnkleSeverity: "To get a complete picture, do you have any past medical history, like arthritis or gout?",

	StateBackLocation:  "Can you describe the pain? (e.g., sharp, dull ache, burning)",
	StateBackCharacter: "Does the pain shoot down your leg?",
	StateBackRadiation: "Is there any numbness or tingling?",
	StateBackNumbness:  "What makes it better or worse (e.g., sitting, standing, lying down)?",
	StateBackModifiers: "To get a complete picture, do you have any past medical history, like a previous back injury or arthritis?",

	StateOtherOnset:    "On a scale of 1-10, how severe is it?",
	StateOtherSeverity: "Can you describe the symptom in more detail?",
	StateOtherDescribe: historyChestOther,

	StateAskedHistory:     "Are you currently taking any medications for that or anything else?",
	StateAskedMedications: "And do you have any allergies to medications?",
	StateAskedAllergies:   "Finally, have any of your family members (like parents or siblings) had similar issues?",
}

const (
	beginPrompt    = "Hello! I'm here to collect some information before your consultation. To start, please type 'hi' or 'hello'."
	readyPrompt    = "Thank you. Please press I'm done to generate a report."
	terminalPrompt = "Thank you. I have all the information I need."
)

// NextQuestion determines the exact next question to pose, given the full
// transcript so far. It is deterministic and memoryless: identical
// transcripts always yield identical output, and every unrecognised
// transcript shape degrades to a safe default prompt rather than an error.
func NextQuestion(messages []models.ChatMessage) string {
	lastQuestion := lastAssistantQuestion(messages)
	if lastQuestion == "" {
		// No question asked yet, including the empty transcript.
		return beginPrompt
	}

	name, category := interviewContext(messages)
	prefix := "Thank you. "
	if name != "" {
		prefix = fmt.Sprintf("Thank you, %s. ", name)
	}

	switch state := deriveState(lastQuestion, category); state {
	case StateIntro:
		return "Great! Please tell me your name."
	case StateAskedName:
		// Address the patient by the name they just gave.
		answered := strings.TrimSpace(messages[len(messages)-1].Content)
		return fmt.Sprintf("Thank you, %s. Now, please tell me your age and gender.", answered)
	case StateAskedAgeGender:
		return prefix + "Now, please tell me about your main symptoms."
	case StateAskedSymptoms:
		complaint := ClassifyComplaint(messages[len(messages)-1].Content)
		return prefix + firstDeepDive[complaint]
	case StateAskedFamilyHistory:
		return terminalPrompt
	case StateUnknown:
		// Includes the terminal state: the "I have all the information"
		// message matches no trigger, so repeated calls keep returning the
		// ready prompt.
		return readyPrompt
	default:
		question, ok := followUp[state]
		if !ok {
			return readyPrompt
		}
		return prefix + question
	}
}

// lastAssistantQuestion returns the lower-cased content of the most recent
// assistant turn, or "" when the transcript has none.
func lastAssistantQuestion(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleAssistant {
			return strings.ToLower(messages[i].Content)
		}
	}
	return ""
}

// interviewContext re-derives the patient's name and symptom category from
// the transcript. First answers win, mirroring ExtractFacts.
func interviewContext(messages []models.ChatMessage) (string, Category) {
	name := ""
	category := CategoryOther

	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role != models.RoleAssistant || messages[i+1].Role != models.RoleUser {
			continue
		}
		question := strings.ToLower(messages[i].Content)
		answer := messages[i+1].Content

		if name == "" && strings.Contains(question, "please tell me your name") {
			name = strings.TrimSpace(answer)
		} else if category == CategoryOther && strings.Contains(question, "main symptoms") {
			category = ClassifyComplaint(answer)
		}
	}

	return name, category
}
