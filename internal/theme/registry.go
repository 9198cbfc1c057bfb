// Package theme holds the light and dark color palettes the terminal UI
// renders with.
package theme

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/pders01/ghscout/internal/debuglog"
)

//go:embed themes.toml
var themesTOML []byte

// DefaultName is used when a configured theme does not exist.
const DefaultName = "default"

// Palette is one set of colors, as #RRGGBB strings.
type Palette struct {
	Description string `toml:"description"`
	Primary     string `toml:"primary"`
	Secondary   string `toml:"secondary"`
	Accent      string `toml:"accent"`
	Background  string `toml:"background"`
	Surface     string `toml:"surface"`
	Text        string `toml:"text"`
	Muted       string `toml:"muted"`
	Error       string `toml:"error"`
	Success     string `toml:"success"`
	Warn        string `toml:"warn"`
}

// Theme pairs the two variants of a palette.
type Theme struct {
	Light Palette `toml:"light"`
	Dark  Palette `toml:"dark"`
}

// ThemesConfig is the layout of themes.toml.
type ThemesConfig struct {
	Themes map[string]Theme `toml:"themes"`
}

type Registry struct {
	themes map[string]Theme
}

// NewRegistry loads the embedded themes, then any user overrides.
func NewRegistry() (*Registry, error) {
	r, err := Parse(themesTOML)
	if err != nil {
		return nil, err
	}
	r.loadUserConfig()
	return r, nil
}

// Parse builds a registry from themes.toml content. Every color must be
// a #RRGGBB value.
func Parse(data []byte) (*Registry, error) {
	var config ThemesConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing themes.toml: %w", err)
	}
	for name, t := range config.Themes {
		if err := t.Light.Validate(); err != nil {
			return nil, fmt.Errorf("theme %s (light): %w", name, err)
		}
		if err := t.Dark.Validate(); err != nil {
			return nil, fmt.Errorf("theme %s (dark): %w", name, err)
		}
	}
	if config.Themes == nil {
		config.Themes = make(map[string]Theme)
	}
	return &Registry{themes: config.Themes}, nil
}

// loadUserConfig merges ~/.config/ghscout/themes.toml over the built-ins.
// A broken user file is logged and skipped.
func (r *Registry) loadUserConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(home, ".config", "ghscout", "themes.toml"))
	if err != nil {
		return
	}
	user, err := Parse(data)
	if err != nil {
		debuglog.Warnf("ignoring user themes: %v", err)
		return
	}
	r.Merge(user)
}

// Merge copies every theme of other into r, replacing same-named ones.
func (r *Registry) Merge(other *Registry) {
	for name, t := range other.themes {
		r.themes[name] = t
	}
}

func (r *Registry) Get(name string) (Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// Names lists the available themes in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Palette returns the light or dark variant of name, falling back to the
// default theme for unknown names.
func (r *Registry) Palette(name string, dark bool) Palette {
	t, ok := r.themes[name]
	if !ok {
		t = r.themes[DefaultName]
	}
	if dark {
		return t.Dark
	}
	return t.Light
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate reports the first color that is not #RRGGBB.
func (p Palette) Validate() error {
	colors := []struct{ name, value string }{
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"accent", p.Accent},
		{"background", p.Background},
		{"surface", p.Surface},
		{"text", p.Text},
		{"muted", p.Muted},
		{"error", p.Error},
		{"success", p.Success},
		{"warn", p.Warn},
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			return fmt.Errorf("%s color %q is not #RRGGBB", c.name, c.value)
		}
	}
	return nil
}
