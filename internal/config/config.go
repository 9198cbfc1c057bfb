package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Browser BrowserConfig `mapstructure:"browser"`
	Keys    KeyConfig     `mapstructure:"keys"`
	Log     LogConfig     `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	WebURL      string        `mapstructure:"web_url"`
	Token       string        `mapstructure:"token"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type UIConfig struct {
	DarkMode             bool   `mapstructure:"dark_mode"`
	Theme                string `mapstructure:"theme"`
	MaxDescriptionLength int    `mapstructure:"max_description_length"`
}

type BrowserConfig struct {
	Opener string `mapstructure:"opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit        string `mapstructure:"quit"`
	NextPage    string `mapstructure:"next_page"`
	PrevPage    string `mapstructure:"prev_page"`
	ToggleTheme string `mapstructure:"toggle_theme"`
	Open        string `mapstructure:"open"`
	Activity    string `mapstructure:"activity"`
	Back        string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".ghscout", "ghscout.log")

	return &Config{
		API: APIConfig{
			BaseURL:     "https://api.github.com/",
			WebURL:      "https://github.com/",
			HTTPTimeout: 30 * time.Second,
			UserAgent:   "ghscout/1.0 (https://github.com/pders01/ghscout)",
		},
		Search: SearchConfig{
			Debounce: 600 * time.Millisecond,
		},
		UI: UIConfig{
			DarkMode:             false,
			Theme:                "default",
			MaxDescriptionLength: 120,
		},
		Browser: BrowserConfig{
			Opener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:        "c",
				NextPage:    "n",
				PrevPage:    "p",
				ToggleTheme: "t",
				Open:        "o",
				Activity:    "a",
				Back:        "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  logPath,
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.web_url", cfg.API.WebURL)
	v.SetDefault("api.token", cfg.API.Token)
	v.SetDefault("api.http_timeout", cfg.API.HTTPTimeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("search.debounce", cfg.Search.Debounce)

	v.SetDefault("ui.dark_mode", cfg.UI.DarkMode)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.max_description_length", cfg.UI.MaxDescriptionLength)

	v.SetDefault("browser.opener", cfg.Browser.Opener)

	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", cfg.Keys.Bindings.Quit)
	v.SetDefault("keys.bindings.next_page", cfg.Keys.Bindings.NextPage)
	v.SetDefault("keys.bindings.prev_page", cfg.Keys.Bindings.PrevPage)
	v.SetDefault("keys.bindings.toggle_theme", cfg.Keys.Bindings.ToggleTheme)
	v.SetDefault("keys.bindings.open", cfg.Keys.Bindings.Open)
	v.SetDefault("keys.bindings.activity", cfg.Keys.Bindings.Activity)
	v.SetDefault("keys.bindings.back", cfg.Keys.Bindings.Back)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// Load reads configuration from configPath, or from the default locations
// when configPath is empty. A .env file in the working directory is loaded
// first so GITHUB_TOKEN can live next to the project.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "ghscout")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GHSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.token", "GHSCOUT_API_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding token env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Log.File = expandPath(config.Log.File)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// Save writes config as TOML. The token is never written.
func Save(config *Config, path string) error {
	v := viper.New()

	apiCfg := map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"web_url":      config.API.WebURL,
		"http_timeout": config.API.HTTPTimeout.String(),
		"user_agent":   config.API.UserAgent,
	}

	searchCfg := map[string]interface{}{
		"debounce": config.Search.Debounce.String(),
	}

	uiCfg := map[string]interface{}{
		"dark_mode":              config.UI.DarkMode,
		"theme":                  config.UI.Theme,
		"max_description_length": config.UI.MaxDescriptionLength,
	}

	keysCfg := map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":         config.Keys.Bindings.Quit,
			"next_page":    config.Keys.Bindings.NextPage,
			"prev_page":    config.Keys.Bindings.PrevPage,
			"toggle_theme": config.Keys.Bindings.ToggleTheme,
			"open":         config.Keys.Bindings.Open,
			"activity":     config.Keys.Bindings.Activity,
			"back":         config.Keys.Bindings.Back,
		},
	}

	v.Set("api", apiCfg)
	v.Set("search", searchCfg)
	v.Set("ui", uiCfg)
	v.Set("browser", map[string]interface{}{"opener": config.Browser.Opener})
	v.Set("keys", keysCfg)
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "file": config.Log.File})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
