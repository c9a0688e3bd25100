package agent

import (
	"fmt"
	"strings"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/wellness"
)

// WellnessInstructions contains the check-in persona and conversation policy.
const WellnessInstructions = `You are a calm, supportive wellness companion guiding a short daily check-in.
The user is speaking to you, but you see text.

Each check-in captures: how the user feels (a mood label and a 1-5 mood score),
their energy level, anything stressing them, and one to three small objectives
for the day.

Behavior:
- Walk through the check-in one topic at a time. Ask about mood first, then energy, then stressors, then objectives.
- Gently ask for a 1 to 5 mood score if the user only gives a feeling word.
- Keep objectives small and concrete. One is enough; never push for more than three.
- When you have everything, write a one-sentence summary of the check-in in your own words and call record_checkin.
- Use get_last_checkin when the user asks what they said last time.
- Use get_wellness_overview when the user asks how their week has been.
- Use export_journal only when the user explicitly asks to export or save their journal.

Style:
- Warm and unhurried, but not clinical. Short sentences.
- Never diagnose, never give medical advice. If the user sounds like they are in crisis, suggest they reach out to someone they trust or a professional.
- Do not use complex formatting or punctuation such as emojis, asterisks, or other special symbols.`

// WellnessProfile builds the daily check-in assistant around a journal.
// The exporter is optional; without it export_journal reports not connected.
func WellnessProfile(journal *wellness.Journal, exporter *wellness.DocsExporter) Profile {
	return Profile{
		Name:         "wellness",
		Instructions: WellnessInstructions,
		Voice:        "sage",
		Detail: func() map[string]any {
			return map[string]any{
				"last_checkin": journal.LastDigest(),
			}
		},
		Tools: []Tool{
			{
				Name: "record_checkin",
				Description: "Record a completed wellness check-in in the journal. Call this once per " +
					"check-in, after the user has shared their mood, energy, stressors, and objectives.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"mood_label": map[string]any{
							"type":        "string",
							"description": "A short word or phrase for the user's mood, for example calm, anxious, upbeat",
						},
						"mood_score_1_to_5": map[string]any{
							"type":        "integer",
							"description": "Mood score from 1 (very low) to 5 (great)",
						},
						"energy_description": map[string]any{
							"type":        "string",
							"description": "How the user described their energy level",
						},
						"stressors": map[string]any{
							"type":        "string",
							"description": "What is stressing the user, empty if nothing",
						},
						"objectives": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "One to three small objectives for the day",
						},
						"agent_summary": map[string]any{
							"type":        "string",
							"description": "Your one-sentence summary of the check-in",
						},
					},
					"required": []string{"mood_label", "mood_score_1_to_5", "energy_description", "objectives", "agent_summary"},
				},
				Handler: func(args map[string]any) (string, error) {
					log.Info("recording check-in", "agent", "wellness")

					score := intArg(args, "mood_score_1_to_5")
					if score < 1 || score > 5 {
						return marshalResult(map[string]any{
							"success": false,
							"message": "mood_score_1_to_5 must be between 1 and 5.",
						})
					}

					objectives := nonEmpty(stringSliceArg(args, "objectives"))
					if len(objectives) < 1 || len(objectives) > 3 {
						return marshalResult(map[string]any{
							"success": false,
							"message": "objectives must contain between 1 and 3 non-empty items.",
						})
					}

					entry := wellness.Entry{
						MoodLabel:         strings.TrimSpace(stringArg(args, "mood_label")),
						MoodScore:         score,
						EnergyDescription: strings.TrimSpace(stringArg(args, "energy_description")),
						Stressors:         strings.TrimSpace(stringArg(args, "stressors")),
						Objectives:        objectives,
						AgentSummary:      strings.TrimSpace(stringArg(args, "agent_summary")),
					}

					saved, total, err := journal.Append(entry)
					if err != nil {
						log.Error("failed to save check-in", "error", err)
						return marshalResult(map[string]any{
							"success": false,
							"message": fmt.Sprintf("Failed to save check-in: %v", err),
						})
					}

					log.Info("check-in saved", "total", total)
					return marshalResult(map[string]any{
						"success": true,
						"message": fmt.Sprintf("Check-in recorded. You logged feeling %s. You now have %d check-ins.", saved.MoodLabel, total),
						"entry":   saved,
						"total":   total,
					})
				},
			},
			{
				Name:        "get_last_checkin",
				Description: "Get a readable digest of the user's most recent check-in.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
					"required":   []string{},
				},
				Handler: func(args map[string]any) (string, error) {
					return journal.LastDigest(), nil
				},
			},
			{
				Name: "get_wellness_overview",
				Description: "Summarize the user's check-ins over a recent window of days: how many " +
					"check-ins, average mood, and how often objectives were set. Defaults to the last 7 days.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"days": map[string]any{
							"type":        "integer",
							"description": "How many days back to look. Defaults to 7.",
						},
					},
					"required": []string{},
				},
				Handler: func(args map[string]any) (string, error) {
					days := intArg(args, "days")
					if days <= 0 {
						days = 7
					}
					return journal.Overview(days), nil
				},
			},
			{
				Name: "export_journal",
				Description: "Export the full wellness journal to the user's connected Google Doc. " +
					"Only call this when the user explicitly asks to export their journal.",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{},
					"required":   []string{},
				},
				Handler: func(args map[string]any) (string, error) {
					if exporter == nil || !exporter.IsAuthenticated() {
						return "Google Docs is not connected. Open the dashboard to connect it first.", nil
					}

					docID, err := exporter.ExportJournal("Wellness Journal", journal.Entries())
					if err != nil {
						log.Error("journal export failed", "error", err)
						return "", fmt.Errorf("export journal: %w", err)
					}

					url := wellness.DocURL(docID)
					log.Info("journal exported", "url", url)
					return "Journal exported to " + url, nil
				},
			},
		},
	}
}

// intArg extracts an integer argument. JSON numbers decode as float64.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// nonEmpty trims the items and drops blanks.
func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
