package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/briteco/brief/internal/assembler"
	"github.com/briteco/brief/internal/config"
	"github.com/briteco/brief/internal/cron"
	"github.com/briteco/brief/internal/distribute"
	"github.com/briteco/brief/internal/generate"
	"github.com/briteco/brief/internal/logger"
	"github.com/briteco/brief/internal/mailer"
	"github.com/briteco/brief/internal/persist"
	"github.com/briteco/brief/internal/research"
	"github.com/briteco/brief/internal/webui"
)

var (
	servePort int
	serveMock bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the operator web server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveMock, "mock", false,
		"Use the deterministic mock generator instead of a live provider")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Logging.File != "" {
		if err := logger.SetOutput(cfg.Logging.File); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
	}

	gen, err := buildGenerator(cfg, serveMock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generation client: %v\n", err)
		os.Exit(1)
	}
	asm := assembler.New(gen)

	var collaborator research.Collaborator
	if cfg.Providers.Perplexity.APIKey != "" {
		collaborator, err = research.NewClient(
			cfg.Providers.Perplexity.APIKey,
			cfg.Providers.Perplexity.BaseURL,
			cfg.Providers.Perplexity.Model,
			cfg.Newsletter.NewsSources,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating research client: %v\n", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no Perplexity API key configured, research routes disabled")
	}

	store, err := persist.NewStore(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	var m *mailer.Mailer
	if cfg.SMTP.User != "" && cfg.SMTP.Password != "" {
		m = mailer.New(cfg.SMTP, cfg.Newsletter.FromEmail)
	} else {
		logger.Warn("smtp credentials not configured, preview sending disabled")
	}

	distributor := distribute.NewOntraport(cfg.Ontraport)
	if !distributor.Configured() {
		logger.Warn("ontraport credentials not configured, campaign staging will be rejected")
	}

	var scheduler *cron.Scheduler
	if collaborator != nil && cfg.Schedule.ResearchPrefetch != "" {
		scheduler = cron.NewScheduler(store, collaborator)
		if err := scheduler.Start(cfg.Schedule.ResearchPrefetch); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting scheduler: %v\n", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	port := servePort
	if port == 0 {
		port = cfg.Port
	}
	server := webui.NewServer(asm, collaborator, store, m, distributor, cfg.Newsletter)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("britebrief listening on http://127.0.0.1:%d", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

func buildGenerator(cfg *config.Config, mock bool) (generate.Client, error) {
	if mock {
		return generate.Mock{}, nil
	}
	switch cfg.Providers.Generation {
	case "", "anthropic":
		p := cfg.Providers.Anthropic
		return generate.NewAnthropic(p.APIKey, p.BaseURL, p.Model)
	case "openai":
		p := cfg.Providers.OpenAI
		return generate.NewOpenAI(p.APIKey, p.BaseURL, p.Model)
	case "mock":
		return generate.Mock{}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Providers.Generation)
	}
}
