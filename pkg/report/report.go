package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sahilverma/nursestation-go/pkg/interview"
	"github.com/sahilverma/nursestation-go/pkg/llm"
	"github.com/sahilverma/nursestation-go/pkg/models"
)

// DifferentialDiagnosis is one candidate condition with the evidence
// for and against it found in the transcript.
type DifferentialDiagnosis struct {
	Condition            string   `json:"condition"`
	JustificationPresent []string `json:"justification_present"`
	JustificationAbsent  []string `json:"justification_absent"`
}

// Body is the structured part of the report produced by the reasoning model.
type Body struct {
	RedFlags              []string                `json:"red_flags"`
	DifferentialDiagnoses []DifferentialDiagnosis `json:"differential_diagnoses"`
}

// Generator assembles the clinical prep report from a finished interview
// transcript. Facts and formatting are deterministic; only the summary
// paragraph and the red-flag/DDx body come from the model.
type Generator struct {
	LLM llm.Client
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{LLM: client}
}

const reasoningSystem = `You are a senior clinical reasoning AI. Your task is to analyze a patient interview transcript.
Your *only* job is to generate 'Red Flags' and 'Differential Diagnoses'.

**CRITICAL INSTRUCTIONS:**
1. Your analysis MUST be based *ONLY* on the symptoms reported in the transcript.
2. Do NOT hallucinate or invent symptoms.
3. For 'Red Flags', list *only* symptoms from the transcript that are high-risk.

You MUST output *only* a valid JSON object with this shape:
{"red_flags": ["..."], "differential_diagnoses": [{"condition": "...", "justification_present": ["..."], "justification_absent": ["..."]}]}
List the top 3 most likely differential diagnoses.`

// Generate runs the two model tasks sequentially and combines the results
// with the extracted facts into the final markdown report.
func (g *Generator) Generate(ctx context.Context, messages []models.ChatMessage) (string, error) {
	facts := interview.ExtractFacts(messages)

	summary, err := g.LLM.Summarize(ctx, summaryPrompt(facts))
	if err != nil {
		return "", fmt.Errorf("summarize transcript: %w", err)
	}

	raw, err := g.LLM.Complete(ctx, reasoningSystem, "Full interview transcript:\n\n"+transcriptString(messages))
	if err != nil {
		return "", fmt.Errorf("generate report body: %w", err)
	}
	body, err := parseBody(raw)
	if err != nil {
		return "", fmt.Errorf("parse report body: %w", err)
	}

	return render(facts, summary, body), nil
}

func summaryPrompt(f interview.Facts) string {
	return fmt.Sprintf(`You will be given a set of extracted facts.
Write a single, professional summary paragraph.

FACTS:
- Patient: %s, %s
- Chief Complaint: %s
- Symptom Details: %s
- History: %s
- Medications: %s
- Allergies: %s

Write the summary now.`,
		f.Name, f.AgeGender, f.ChiefComplaint,
		strings.Join(f.SymptomDetails, "\n"),
		f.History, f.Medications, f.Allergies)
}

func transcriptString(messages []models.ChatMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// parseBody tolerates models that wrap their JSON in markdown code fences.
func parseBody(raw string) (Body, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	var body Body
	if err := json.Unmarshal([]byte(s), &body); err != nil {
		return Body{}, err
	}
	return body, nil
}

func render(f interview.Facts, summary string, body Body) string {
	var b strings.Builder

	b.WriteString("**Clinical Prep Report**\n\n")
	fmt.Fprintf(&b, "**Patient Name:** %s\n", f.Name)
	fmt.Fprintf(&b, "**Age & Gender:** %s\n\n", f.AgeGender)
	fmt.Fprintf(&b, "**Summary:**\n%s\n\n", summary)

	b.WriteString("**Red Flags:**\n")
	if len(body.RedFlags) > 0 {
		for _, flag := range body.RedFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	} else {
		b.WriteString("- None identified based on transcript.\n")
	}

	b.WriteString("\n**Differential Diagnoses (DDx):**\n")
	if len(body.DifferentialDiagnoses) == 0 {
		b.WriteString("- No specific diagnoses could be determined.\n")
		return b.String()
	}
	for i, ddx := range body.DifferentialDiagnoses {
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, ddx.Condition)
		if len(ddx.JustificationPresent) > 0 {
			fmt.Fprintf(&b, "  - *Supporting Symptoms:* %s\n", strings.Join(ddx.JustificationPresent, ", "))
		} else {
			b.WriteString("  - *Supporting Symptoms:* None specified.\n")
		}
	}
	return b.String()
}
