package internal

import "time"

// Session describes one interactive walk over a template document.
type Session struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	TargetLang string    `json:"target_lang"`
	JumpTo     string    `json:"jump_to,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// DecisionRecord is the outcome of one prompted String element.
type DecisionRecord struct {
	SessionID  string    `json:"session_id"`
	Key        string    `json:"key"`
	SourceText string    `json:"source_text"`
	TargetLang string    `json:"target_lang"`
	Candidate  string    `json:"candidate"`
	FinalText  string    `json:"final_text"`
	Decision   string    `json:"decision"`
	Timestamp  time.Time `json:"timestamp"`
}
