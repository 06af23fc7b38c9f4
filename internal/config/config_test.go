package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.Newsletter.Title != "The BriteCo Brief" {
		t.Fatalf("default title = %q", cfg.Newsletter.Title)
	}
	if cfg.Providers.Generation != "anthropic" {
		t.Fatalf("default generation provider = %q", cfg.Providers.Generation)
	}
}

func TestLoadFromPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
port: 9191
providers:
  generation: mock
newsletter:
  title: Test Brief
  team_members:
    - name: Pat
      email: pat@example.com
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Port != 9191 {
		t.Fatalf("port = %d, want 9191", cfg.Port)
	}
	if cfg.Providers.Generation != "mock" {
		t.Fatalf("generation = %q, want mock", cfg.Providers.Generation)
	}
	if cfg.Newsletter.Title != "Test Brief" {
		t.Fatalf("title = %q", cfg.Newsletter.Title)
	}
	if len(cfg.Newsletter.TeamMembers) != 1 || cfg.Newsletter.TeamMembers[0].Email != "pat@example.com" {
		t.Fatalf("team members = %+v", cfg.Newsletter.TeamMembers)
	}
	// Untouched fields keep their defaults.
	if cfg.Providers.Perplexity.Model != "sonar-pro" {
		t.Fatalf("perplexity model = %q, want sonar-pro", cfg.Providers.Perplexity.Model)
	}
}

func TestLoadFromPathAppliesEnvCredentials(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-123")
	t.Setenv("SMTP_USER", "mailer@example.com")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Providers.Anthropic.APIKey != "sk-test-123" {
		t.Fatalf("anthropic key = %q", cfg.Providers.Anthropic.APIKey)
	}
	if cfg.SMTP.User != "mailer@example.com" {
		t.Fatalf("smtp user = %q", cfg.SMTP.User)
	}
}
