package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		WebApp:   WebAppConfig{URL: "https://app.example.com"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.AniList.APIURL != "https://graphql.anilist.co" {
		t.Fatalf("api url = %q", cfg.AniList.APIURL)
	}
	if cfg.AniList.PerPage != 5 {
		t.Fatalf("per page = %d, want 5", cfg.AniList.PerPage)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = "   "
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRequiresWebAppURL(t *testing.T) {
	cfg := validConfig()
	cfg.WebApp.URL = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing web_app.url")
	}
}

func TestNormalizePollingAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
}

func TestNormalizeRejectsUnknownRunMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown run mode")
	}
}

func TestNormalizeWebhookValidation(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
}

func TestNormalizeNegativeLongpollTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.LongPollTimeoutSeconds = -1
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
telegram:
  token: "file-token"
web_app:
  url: "https://app.example.com"
anilist:
  per_page: 7
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BOT_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("token = %q, want env override", cfg.Telegram.Token)
	}
	if cfg.AniList.PerPage != 7 {
		t.Fatalf("per page = %d, want 7 from file", cfg.AniList.PerPage)
	}
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("WEB_APP_URL", "https://app.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.WebApp.URL != "https://app.example.com" {
		t.Fatalf("web app url = %q", cfg.WebApp.URL)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("telegram: ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected YAML parse error")
	}
}
