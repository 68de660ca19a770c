package model

import "encoding/json"

type Call struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Twilio    string      `json:"twilio"`
	Caller    string      `json:"caller"`
	Duration  int         `json:"duration"`
	Summary   CallSummary `json:"summary"`
	AudioURL  string      `json:"audio_url"`
	Grade     string      `json:"grade"`
	CreatedAt string      `json:"created_at"`
}

// CallSummary is the summary field of a call. Upstream sometimes stores it as
// plain text and sometimes as a JSON-encoded object with a call_summary key;
// the union is resolved once here instead of at every render site.
type CallSummary struct {
	Text       string
	Structured bool
}

func (s *CallSummary) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var nested struct {
		CallSummary string `json:"call_summary"`
	}
	if err := json.Unmarshal([]byte(raw), &nested); err == nil && nested.CallSummary != "" {
		s.Text = nested.CallSummary
		s.Structured = true
		return nil
	}

	// not JSON, or JSON without a call_summary key: keep the raw text
	s.Text = raw
	s.Structured = false
	return nil
}

func (s CallSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

func (s CallSummary) String() string { return s.Text }
