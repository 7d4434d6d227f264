package domain

import "time"

type Transcript struct {
	SessionID  string
	Provider   Provider
	Model      string
	StartedAt  time.Time
	ExportedAt time.Time
	Messages   []Message
	Memory     []Exchange
}

func (t Transcript) Turns() int {
	return len(t.Memory)
}

// TranscriptSummary is the listing view of an exported transcript.
type TranscriptSummary struct {
	SessionID  string
	StartedAt  time.Time
	ExportedAt time.Time
	Turns      int
	Path       string
}
