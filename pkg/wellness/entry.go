// Package wellness maintains an append-only journal of wellness check-ins
// and renders digests and windowed summaries for the voice agent.
package wellness

import (
	"fmt"
	"strings"
	"time"
)

// Entry is a single wellness check-in. JSON field names are part of the
// on-disk log format and must not change.
type Entry struct {
	Timestamp         string   `json:"timestamp"`
	MoodLabel         string   `json:"mood_label"`
	MoodScore         int      `json:"mood_score_1_to_5"`
	EnergyDescription string   `json:"energy_description"`
	Stressors         string   `json:"stressors"`
	Objectives        []string `json:"objectives"`
	AgentSummary      string   `json:"agent_summary"`
}

// Time parses the entry timestamp. Entries written by this package use
// RFC 3339 UTC timestamps, but the log may contain hand-edited values.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, e.Timestamp)
}

// HasValidScore reports whether the mood score is in the 1-5 range.
func (e Entry) HasValidScore() bool {
	return e.MoodScore >= 1 && e.MoodScore <= 5
}

// Digest renders the entry as a short spoken-friendly paragraph.
func (e Entry) Digest() string {
	var b strings.Builder

	when := e.Timestamp
	if t, err := e.Time(); err == nil {
		when = t.Format("Monday, January 2 at 15:04 UTC")
	}

	fmt.Fprintf(&b, "On %s you felt %s", when, e.MoodLabel)
	if e.HasValidScore() {
		fmt.Fprintf(&b, " (mood %d out of 5)", e.MoodScore)
	}
	b.WriteString(".")

	if e.EnergyDescription != "" {
		fmt.Fprintf(&b, " Energy: %s.", e.EnergyDescription)
	}
	if e.Stressors != "" {
		fmt.Fprintf(&b, " Stressors: %s.", e.Stressors)
	}
	if len(e.Objectives) > 0 {
		fmt.Fprintf(&b, " Objectives: %s.", strings.Join(e.Objectives, "; "))
	}
	if e.AgentSummary != "" {
		fmt.Fprintf(&b, " Summary: %s", e.AgentSummary)
	}

	return b.String()
}
