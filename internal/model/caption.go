package model

// OutcomeStatus classifies the result of one caption acquisition attempt
type OutcomeStatus string

const (
	OutcomeSuccess     OutcomeStatus = "success"
	OutcomeNotFound    OutcomeStatus = "not_found"
	OutcomeDisabled    OutcomeStatus = "disabled"
	OutcomeUnavailable OutcomeStatus = "unavailable"
	OutcomeTransient   OutcomeStatus = "transient_error"
)

// Outcome is the result of one strategy's attempt to obtain a transcript.
// Outcomes are transient; they are collected for error reporting only and
// never persisted.
type Outcome struct {
	Strategy  string        `json:"strategy"`
	Languages []string      `json:"languages,omitempty"` // language codes tried, in order
	Status    OutcomeStatus `json:"status"`
	Text      string        `json:"text,omitempty"`
	Detail    string        `json:"detail,omitempty"`
}

// ResolvedTranscript is the final product of caption resolution
type ResolvedTranscript struct {
	Text   string `json:"text"`
	Source string `json:"source"` // name of the strategy that produced the text
}

// CaptionTrack describes one available caption track for a video
type CaptionTrack struct {
	ID           string `json:"id"`
	Language     string `json:"language"`      // BCP-47 code, e.g. "en"
	LanguageName string `json:"language_name"` // human-readable, e.g. "English"
	Generated    bool   `json:"generated"`     // true for auto-generated captions
	Translatable bool   `json:"translatable"`
}

// TranscriptSegment is a single time-aligned piece of transcript text
type TranscriptSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"` // seconds
	End   float64 `json:"end"`   // seconds
}
