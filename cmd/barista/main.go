// Barista - voice coffee-order agent for Brew Bliss Coffee
// Takes a spoken drink order and saves it as a JSON file on finalize.
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
	"github.com/murmurlabs/voicebots/pkg/order"
)

func main() {
	godotenv.Load(".env.local")

	cfg := parseFlags()

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.Init(level)

	store := order.NewDirStore(cfg.OrdersDir)
	profile := agent.BaristaProfile(store)

	app, err := agent.New(cfg, profile)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
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

// parseFlags parses command line flags and returns configuration.
func parseFlags() agent.Config {
	cfg := agent.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	provider := flag.String("provider", cfg.Provider, "Voice provider: openai or gemini")
	port := flag.String("port", cfg.DashboardPort, "Dashboard port")
	ordersDir := flag.String("orders-dir", cfg.OrdersDir, "Directory for finalized order files")
	voice := flag.String("voice", "", "TTS voice override")
	profileLatency := flag.Bool("profile-latency", false, "Log per-turn latency breakdown")

	flag.Parse()

	cfg.Debug = *debug
	cfg.Provider = *provider
	cfg.DashboardPort = *port
	cfg.OrdersDir = *ordersDir
	cfg.TTSVoice = *voice
	cfg.ProfileLatency = *profileLatency

	return cfg
}
