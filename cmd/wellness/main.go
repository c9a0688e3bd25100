// Wellness - voice check-in companion
// Guides a short daily check-in and appends it to a local JSON journal,
// with optional export to Google Docs.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/murmurlabs/voicebots/internal/log"
	"github.com/murmurlabs/voicebots/pkg/agent"
	"github.com/murmurlabs/voicebots/pkg/wellness"
)

func main() {
	godotenv.Load(".env.local")

	cfg := parseFlags()

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	cfg.LoadEnvConfig()

	journal := wellness.NewJournal(wellness.NewFileStore(cfg.JournalPath))
	exporter := newExporter(cfg)
	profile := agent.WellnessProfile(journal, exporter)

	app, err := agent.New(cfg, profile)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if exporter != nil {
		app.EnableJournalExport(journal, exporter)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
		os.Exit(1)
	}
}

// newExporter builds the Docs exporter when OAuth credentials are present.
func newExporter(cfg agent.Config) *wellness.DocsExporter {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Info("journal export disabled (no Google OAuth credentials)")
		return nil
	}

	exporter, err := wellness.NewDocsExporter(wellness.DocsConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  "http://localhost:" + cfg.DashboardPort + "/api/export/callback",
	})
	if err != nil {
		log.Warn("journal export disabled", "error", err)
		return nil
	}
	return exporter
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() agent.Config {
	cfg := agent.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	provider := flag.String("provider", cfg.Provider, "Voice provider: openai or gemini")
	port := flag.String("port", cfg.DashboardPort, "Dashboard port")
	journalPath := flag.String("journal", cfg.JournalPath, "Path to the wellness log file")
	voice := flag.String("voice", "", "TTS voice override")
	profileLatency := flag.Bool("profile-latency", false, "Log per-turn latency breakdown")

	flag.Parse()

	cfg.Debug = *debug
	cfg.Provider = *provider
	cfg.DashboardPort = *port
	cfg.JournalPath = *journalPath
	cfg.TTSVoice = *voice
	cfg.ProfileLatency = *profileLatency

	return cfg
}
