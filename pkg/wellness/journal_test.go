package wellness

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testJournal(t *testing.T) (*Journal, *FileStore) {
	t.Helper()
	dir, err := os.MkdirTemp("", "wellness-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := NewFileStore(filepath.Join(dir, "wellness_log.json"))
	return NewJournal(store), store
}

func checkin(label string, score int, objectives ...string) Entry {
	return Entry{
		MoodLabel:         label,
		MoodScore:         score,
		EnergyDescription: "steady",
		Objectives:        objectives,
		AgentSummary:      "felt " + label,
	}
}

func TestJournal_AppendAndRead(t *testing.T) {
	j, store := testJournal(t)

	for i, label := range []string{"calm", "tired", "upbeat"} {
		entry, total, err := j.Append(checkin(label, i+2, "walk"))
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if total != i+1 {
			t.Errorf("expected total %d, got %d", i+1, total)
		}
		if entry.Timestamp == "" {
			t.Error("expected appended entry to carry a timestamp")
		}
		if _, err := entry.Time(); err != nil {
			t.Errorf("appended timestamp not parsable: %v", err)
		}

		// File must be valid JSON after every append, including the first
		data, err := store.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("log is not valid JSON after append %d: %v", i+1, err)
		}
	}

	entries := j.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Append order preserved
	for i, label := range []string{"calm", "tired", "upbeat"} {
		if entries[i].MoodLabel != label {
			t.Errorf("entry %d: expected mood %q, got %q", i, label, entries[i].MoodLabel)
		}
	}
}

func TestJournal_MissingFileIsEmpty(t *testing.T) {
	j, _ := testJournal(t)

	if got := j.Entries(); len(got) != 0 {
		t.Errorf("expected empty log, got %d entries", len(got))
	}
	if got := j.LastDigest(); got != noCheckins {
		t.Errorf("expected sentinel %q, got %q", noCheckins, got)
	}
}

func TestJournal_CorruptFileIsEmpty(t *testing.T) {
	j, store := testJournal(t)

	if err := store.Save([]byte("{not json")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := j.Entries(); len(got) != 0 {
		t.Errorf("expected corrupt log to read as empty, got %d entries", len(got))
	}

	// Appending to a corrupt log starts fresh rather than failing
	_, total, err := j.Append(checkin("calm", 3))
	if err != nil {
		t.Fatalf("Append on corrupt log failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected fresh log with 1 entry, got %d", total)
	}
}

func TestJournal_BadEntriesSkipped(t *testing.T) {
	j, store := testJournal(t)

	// Second element is the wrong shape; the rest must survive
	raw := `[
		{"timestamp": "2026-08-29T10:00:00Z", "mood_label": "calm", "mood_score_1_to_5": 4, "objectives": ["walk"]},
		"not an object",
		{"timestamp": "2026-08-30T10:00:00Z", "mood_label": "tired", "mood_score_1_to_5": 2, "objectives": []}
	]`
	if err := store.Save([]byte(raw)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries := j.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 readable entries, got %d", len(entries))
	}
	if entries[0].MoodLabel != "calm" || entries[1].MoodLabel != "tired" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestJournal_LastDigest(t *testing.T) {
	j, _ := testJournal(t)

	j.Append(checkin("calm", 3, "walk"))
	j.Append(Entry{
		MoodLabel:         "upbeat",
		MoodScore:         5,
		EnergyDescription: "high",
		Stressors:         "deadline at work",
		Objectives:        []string{"finish report", "sleep early"},
		AgentSummary:      "a strong day overall",
	})

	digest := j.LastDigest()
	for _, want := range []string{"upbeat", "5 out of 5", "high", "deadline at work", "finish report; sleep early", "a strong day overall"} {
		if !strings.Contains(digest, want) {
			t.Errorf("digest missing %q: %s", want, digest)
		}
	}
	if strings.Contains(digest, "calm") {
		t.Errorf("digest should describe only the newest entry: %s", digest)
	}
}

func TestJournal_Overview(t *testing.T) {
	j, _ := testJournal(t)

	// Scores 3, 4, 5 inside the window, each with an objective
	for i, score := range []int{3, 4, 5} {
		j.now = func() time.Time {
			return time.Now().UTC().Add(-time.Duration(i) * time.Hour)
		}
		if _, _, err := j.Append(checkin("calm", score, "walk")); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	j.now = time.Now

	got := j.Overview(7)
	for _, want := range []string{"3 times", "last 7 days", "4.0 out of 5", "3 of those days"} {
		if !strings.Contains(got, want) {
			t.Errorf("overview missing %q: %s", want, got)
		}
	}
}

func TestJournal_Overview_EmptyLog(t *testing.T) {
	j, _ := testJournal(t)

	if got := j.Overview(7); got != noCheckins {
		t.Errorf("expected sentinel %q, got %q", noCheckins, got)
	}
}

func TestJournal_Overview_AllOutsideWindow(t *testing.T) {
	j, _ := testJournal(t)

	j.now = func() time.Time {
		return time.Now().UTC().AddDate(0, 0, -30)
	}
	j.Append(checkin("calm", 4, "walk"))
	j.now = time.Now

	got := j.Overview(7)
	if !strings.Contains(got, "no check-ins in the last 7 days") {
		t.Errorf("expected out-of-window sentinel, got %q", got)
	}
}

func TestJournal_Overview_NoParsableScores(t *testing.T) {
	j, store := testJournal(t)

	now := time.Now().UTC().Format(time.RFC3339)
	raw := `[{"timestamp": "` + now + `", "mood_label": "calm", "mood_score_1_to_5": 0, "objectives": []}]`
	if err := store.Save([]byte(raw)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := j.Overview(7)
	if strings.Contains(got, "average mood score") {
		t.Errorf("average sentence should be omitted without valid scores: %q", got)
	}
	if !strings.Contains(got, "1 times in the last 7 days") {
		t.Errorf("expected count sentence, got %q", got)
	}
}

func TestJournal_Overview_UnparsableTimestampsSkipped(t *testing.T) {
	j, store := testJournal(t)

	now := time.Now().UTC().Format(time.RFC3339)
	raw := `[
		{"timestamp": "yesterday-ish", "mood_label": "calm", "mood_score_1_to_5": 5, "objectives": ["a"]},
		{"timestamp": "` + now + `", "mood_label": "tired", "mood_score_1_to_5": 2, "objectives": []}
	]`
	if err := store.Save([]byte(raw)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got := j.Overview(7)
	if !strings.Contains(got, "1 times in the last 7 days") {
		t.Errorf("entry with unparsable timestamp should be skipped, got %q", got)
	}
	if !strings.Contains(got, "2.0 out of 5") {
		t.Errorf("expected average over in-window entries only, got %q", got)
	}
}

func TestEntry_Digest_MinimalEntry(t *testing.T) {
	e := Entry{Timestamp: "2026-08-30T10:00:00Z", MoodLabel: "flat"}

	digest := e.Digest()
	if !strings.Contains(digest, "flat") {
		t.Errorf("digest missing mood label: %s", digest)
	}
	if strings.Contains(digest, "out of 5") {
		t.Errorf("digest should omit score when invalid: %s", digest)
	}
	if strings.Contains(digest, "Stressors") {
		t.Errorf("digest should omit empty stressors: %s", digest)
	}
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	dir, err := os.MkdirTemp("", "wellness-store-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	// Nested path exercises lazy directory creation
	store := NewFileStore(filepath.Join(dir, "data", "wellness_log.json"))

	if data, err := store.Load(); err != nil || data != nil {
		t.Errorf("expected nil data for missing file, got %v, %v", data, err)
	}

	if err := store.Save([]byte(`[]`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %q", string(data))
	}

	// No stale temp files left behind
	files, err := os.ReadDir(filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected only the log file, found %d files", len(files))
	}
}
