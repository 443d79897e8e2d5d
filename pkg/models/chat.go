package models

// Chat roles used in interview transcripts.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// ChatMessage is a single turn in an interview transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries the full ordered transcript from the client. The
// interview driver is stateless, so every request repeats the whole history.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse holds the next question (or terminal prompt) to show the
// patient.
type ChatResponse struct {
	Response string `json:"response"`
}

// ReportResponse wraps the formatted clinical prep report.
type ReportResponse struct {
	Report string `json:"report"`
}
