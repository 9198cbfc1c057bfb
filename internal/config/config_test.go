package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else if opener != "open" {
		t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.BaseURL != "https://api.github.com/" {
		t.Errorf("API.BaseURL = %s, want https://api.github.com/", cfg.API.BaseURL)
	}
	if cfg.API.HTTPTimeout != 30*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 30s", cfg.API.HTTPTimeout)
	}
	if cfg.API.UserAgent == "" {
		t.Error("API.UserAgent should not be empty")
	}

	if cfg.Search.Debounce != 600*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 600ms", cfg.Search.Debounce)
	}

	if cfg.UI.DarkMode {
		t.Error("UI.DarkMode should start false")
	}
	if cfg.Browser.Opener == "" {
		t.Error("Browser.Opener should not be empty")
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
	if cfg.Keys.Bindings.ToggleTheme != "t" {
		t.Errorf("Keys.Bindings.ToggleTheme = %s, want 't'", cfg.Keys.Bindings.ToggleTheme)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.Search.Debounce != 600*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 600ms", cfg.Search.Debounce)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[api]
base_url = "http://127.0.0.1:9999/api/v3/"
http_timeout = "60s"
user_agent = "test-agent"

[search]
debounce = "250ms"

[ui]
dark_mode = true
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:9999/api/v3/" {
		t.Errorf("API.BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.HTTPTimeout != 60*time.Second {
		t.Errorf("API.HTTPTimeout = %v, want 60s", cfg.API.HTTPTimeout)
	}
	if cfg.API.UserAgent != "test-agent" {
		t.Errorf("API.UserAgent = %s, want 'test-agent'", cfg.API.UserAgent)
	}
	if cfg.Search.Debounce != 250*time.Millisecond {
		t.Errorf("Search.Debounce = %v, want 250ms", cfg.Search.Debounce)
	}
	if !cfg.UI.DarkMode {
		t.Error("UI.DarkMode = false, want true")
	}
	// untouched sections keep their defaults
	if cfg.Keys.Bindings.NextPage != "n" {
		t.Errorf("Keys.Bindings.NextPage = %s, want 'n'", cfg.Keys.Bindings.NextPage)
	}
}

func TestLoad_TokenFromEnvironment(t *testing.T) {
	t.Setenv("GHSCOUT_API_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "ghp_fromenv")

	configPath := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(configPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Token != "ghp_fromenv" {
		t.Errorf("API.Token = %q, want ghp_fromenv", cfg.API.Token)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	os.Unsetenv("GHSCOUT_API_TOKEN")
	os.Unsetenv("GITHUB_TOKEN")
	t.Cleanup(func() { os.Unsetenv("GITHUB_TOKEN") })

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=ghp_dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Token != "ghp_dotenv" {
		t.Errorf("API.Token = %q, want ghp_dotenv", cfg.API.Token)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := defaultConfig()
	cfg.API.UserAgent = "test-save-agent"
	cfg.API.Token = "secret"
	cfg.Search.Debounce = 900 * time.Millisecond
	cfg.Keys.Modifier = "alt"

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	data, err := os.ReadFile(savePath)
	if err != nil {
		t.Fatal("Save() did not create config file")
	}
	if string(data) == "" {
		t.Fatal("Save() wrote an empty file")
	}

	t.Setenv("GHSCOUT_API_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.UserAgent != cfg.API.UserAgent {
		t.Errorf("Loaded API.UserAgent = %s, want %s", loaded.API.UserAgent, cfg.API.UserAgent)
	}
	if loaded.Search.Debounce != cfg.Search.Debounce {
		t.Errorf("Loaded Search.Debounce = %v, want %v", loaded.Search.Debounce, cfg.Search.Debounce)
	}
	if loaded.Keys.Modifier != cfg.Keys.Modifier {
		t.Errorf("Loaded Keys.Modifier = %s, want %s", loaded.Keys.Modifier, cfg.Keys.Modifier)
	}
	if loaded.API.Token != "" {
		t.Errorf("token must not be persisted, got %q", loaded.API.Token)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "generated.toml")
	if genErr := GenerateDefaultConfig(configPath); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		t.Fatal("GenerateDefaultConfig() did not create file")
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	if cfg.Keys.Modifier != "ctrl" {
		t.Errorf("Generated config has Keys.Modifier = %s, want 'ctrl'", cfg.Keys.Modifier)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := expandPath("~/logs/x.log"); got != filepath.Join(home, "logs", "x.log") {
		t.Errorf("expandPath(~/logs/x.log) = %s", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %s, want empty", got)
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	if cfg == nil {
		t.Fatal("TestConfig() returned nil")
	}

	if cfg.API.UserAgent != "ghscout-test/1.0" {
		t.Errorf("TestConfig API.UserAgent = %s, want 'ghscout-test/1.0'", cfg.API.UserAgent)
	}
	if cfg.Search.Debounce >= 600*time.Millisecond {
		t.Errorf("TestConfig Search.Debounce = %v, want a short interval", cfg.Search.Debounce)
	}
}
