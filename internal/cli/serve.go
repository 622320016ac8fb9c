package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tubetalk/tubetalk/internal/config"
	"github.com/tubetalk/tubetalk/internal/llm"
	"github.com/tubetalk/tubetalk/internal/metrics"
	"github.com/tubetalk/tubetalk/internal/server"
	"github.com/tubetalk/tubetalk/internal/service"
	"github.com/tubetalk/tubetalk/internal/session"
	"github.com/tubetalk/tubetalk/internal/transcript"
)

var (
	serveConfigFile string
	serveListen     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tubetalk API server",
	Long: `Start the HTTP API server. Configuration comes from environment
variables (TUBETALK_*), optionally overlaid with a YAML config file.

Requires credentials for the configured backends, e.g. OPENAI_API_KEY
and YOUTUBE_TRANSCRIPT_API_KEY for the defaults.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "YAML config file overlaying the environment")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides TUBETALK_LISTEN)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if serveConfigFile != "" {
		if err := cfg.ApplyFile(serveConfigFile); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}
	if serveListen != "" {
		cfg.ListenAddr = serveListen
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Printf("Warning: failed to close log file: %v\n", err)
		}
	}()

	model, err := llm.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("init generation backend: %w", err)
	}
	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("init embedding backend: %w", err)
	}
	transcripts, err := transcript.NewClient(cfg.TranscriptBaseURL, cfg.TranscriptAPIKey, cfg.TranscriptLangs, cfg.FetchTimeout)
	if err != nil {
		return fmt.Errorf("init transcript client: %w", err)
	}

	svc := service.New(cfg, session.NewStore(), transcripts, model, embedder, metrics.NewCollector())
	defer svc.Close()

	logger.Info("starting tubetalk server",
		"listen", cfg.ListenAddr,
		"llm", model.ModelName(),
		"embedding", embedder.ModelName(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc, logger)
	return srv.Run(ctx, cfg.ListenAddr)
}
