package wellness

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Sentinel responses for an empty or out-of-window log.
const (
	noCheckins = "You have no check-ins yet."
)

// Journal is the append-only wellness log. Entries gain a fresh UTC
// timestamp on append and are never mutated afterwards.
type Journal struct {
	mu    sync.Mutex
	store Store

	// now is swappable for tests
	now func() time.Time
}

// NewJournal creates a journal over the given store.
func NewJournal(store Store) *Journal {
	return &Journal{
		store: store,
		now:   time.Now,
	}
}

// Append stamps the entry with the current UTC time, appends it to the log
// and rewrites the store. It returns the stamped entry and the new total
// entry count.
func (j *Journal) Append(e Entry) (Entry, int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := j.load()

	e.Timestamp = j.now().UTC().Format(time.RFC3339)
	if e.Objectives == nil {
		e.Objectives = []string{}
	}
	entries = append(entries, e)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Entry{}, 0, fmt.Errorf("wellness: failed to marshal log: %w", err)
	}
	if err := j.store.Save(data); err != nil {
		return Entry{}, 0, err
	}

	return e, len(entries), nil
}

// Entries returns all readable entries in append order.
// A corrupt log reads as empty; individually corrupt entries are skipped.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.load()
}

// LastDigest returns a digest of the most recent entry, or the empty-log
// sentinel.
func (j *Journal) LastDigest() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := j.load()
	if len(entries) == 0 {
		return noCheckins
	}
	return entries[len(entries)-1].Digest()
}

// Overview summarizes check-ins within the past windowDays days: how many
// there were, the mean mood score to one decimal (omitted when no entry in
// the window carries a valid score), and on how many of them at least one
// objective was set.
func (j *Journal) Overview(windowDays int) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := j.load()
	if len(entries) == 0 {
		return noCheckins
	}

	now := j.now().UTC()
	cutoff := now.AddDate(0, 0, -windowDays)

	var (
		count          int
		scoreSum       int
		scoreCount     int
		withObjectives int
	)
	for _, e := range entries {
		t, err := e.Time()
		if err != nil {
			continue
		}
		if t.Before(cutoff) || t.After(now) {
			continue
		}
		count++
		if e.HasValidScore() {
			scoreSum += e.MoodScore
			scoreCount++
		}
		if len(e.Objectives) > 0 {
			withObjectives++
		}
	}

	if count == 0 {
		return fmt.Sprintf("You have no check-ins in the last %d days.", windowDays)
	}

	summary := fmt.Sprintf("You checked in %d times in the last %d days.", count, windowDays)
	if scoreCount > 0 {
		mean := float64(scoreSum) / float64(scoreCount)
		summary += fmt.Sprintf(" Your average mood score was %.1f out of 5.", mean)
	}
	summary += fmt.Sprintf(" You noted at least one objective on %d of those days.", withObjectives)
	return summary
}

// load reads and decodes the log. Must be called with the mutex held.
func (j *Journal) load() []Entry {
	data, err := j.store.Load()
	if err != nil || len(data) == 0 {
		return []Entry{}
	}

	// Decode entry by entry so one bad record doesn't lose the rest.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Entry{}
	}

	entries := make([]Entry, 0, len(raw))
	for _, r := range raw {
		var e Entry
		if err := json.Unmarshal(r, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}
