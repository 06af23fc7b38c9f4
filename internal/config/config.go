package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Port       int              `yaml:"port"`
	Logging    LoggingConfig    `yaml:"logging"`
	Providers  ProvidersConfig  `yaml:"providers"`
	SMTP       SMTPConfig       `yaml:"smtp,omitempty"`
	Ontraport  OntraportConfig  `yaml:"ontraport,omitempty"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	Storage    StorageConfig    `yaml:"storage"`
	Schedule   ScheduleConfig   `yaml:"schedule,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// ProviderConfig holds credentials for one upstream AI capability.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type ProvidersConfig struct {
	// Generation selects the drafting backend: "anthropic", "openai", or "mock".
	Generation string         `yaml:"generation,omitempty"`
	Anthropic  ProviderConfig `yaml:"anthropic,omitempty"`
	OpenAI     ProviderConfig `yaml:"openai,omitempty"`
	Perplexity ProviderConfig `yaml:"perplexity,omitempty"`
}

type SMTPConfig struct {
	Server   string `yaml:"server,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// OntraportConfig holds credentials for the email campaign platform.
type OntraportConfig struct {
	AppID  string `yaml:"app_id,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
}

// TeamMember receives newsletter previews.
type TeamMember struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type NewsletterConfig struct {
	Title       string       `yaml:"title"`
	FromEmail   string       `yaml:"from_email"`
	FromName    string       `yaml:"from_name"`
	NewsSources []string     `yaml:"news_sources,omitempty"`
	TeamMembers []TeamMember `yaml:"team_members,omitempty"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type ScheduleConfig struct {
	// ResearchPrefetch is a cron expression for the monthly research refresh.
	// Empty disables the scheduler.
	ResearchPrefetch string `yaml:"research_prefetch,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Port: 8080,
		Logging: LoggingConfig{
			Level: "info",
		},
		Providers: ProvidersConfig{
			Generation: "anthropic",
			Anthropic: ProviderConfig{
				Model: "claude-sonnet-4-20250514",
			},
			Perplexity: ProviderConfig{
				BaseURL: "https://api.perplexity.ai",
				Model:   "sonar-pro",
			},
		},
		SMTP: SMTPConfig{
			Server: "smtp.gmail.com",
			Port:   587,
		},
		Newsletter: NewsletterConfig{
			Title:     "The BriteCo Brief",
			FromEmail: "agent@brite.co",
			FromName:  "BriteCo Brief",
		},
		Storage: StorageConfig{
			Path: filepath.Join(DataDir(), "brief.db"),
		},
		Schedule: ScheduleConfig{
			// First day of the month, 06:00
			ResearchPrefetch: "0 6 1 * *",
		},
	}
}

func DataDir() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".britebrief")
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".britebrief.yaml")
}

func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials from environment variables when the
// config file leaves them empty.
func (c *Config) applyEnv() {
	if c.Providers.Anthropic.APIKey == "" {
		c.Providers.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.Providers.OpenAI.APIKey == "" {
		c.Providers.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Providers.Perplexity.APIKey == "" {
		c.Providers.Perplexity.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if c.SMTP.User == "" {
		c.SMTP.User = os.Getenv("SMTP_USER")
	}
	if c.SMTP.Password == "" {
		c.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	}
	if c.Ontraport.AppID == "" {
		c.Ontraport.AppID = os.Getenv("ONTRAPORT_APP_ID")
	}
	if c.Ontraport.APIKey == "" {
		c.Ontraport.APIKey = os.Getenv("ONTRAPORT_API_KEY")
	}
}

func (c *Config) Save() error {
	dir := DataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}
