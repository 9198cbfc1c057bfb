package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/ghscout/internal/config"
	"github.com/pders01/ghscout/internal/debuglog"
	"github.com/pders01/ghscout/internal/explorer"
	"github.com/pders01/ghscout/internal/gateway"
	"github.com/pders01/ghscout/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	quiet      bool
	darkMode   bool
	themeName  string
	logLevel   string
	lookupPage int
)

// newFetcher is swapped out by tests.
var newFetcher = func(cfg *config.Config) (gateway.Fetcher, error) {
	return gateway.NewGitHubGateway(cfg)
}

var rootCmd = &cobra.Command{
	Use:          "ghscout [login]",
	Short:        "Explore GitHub users and their most starred repositories",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ghscout %s\n", Version)
		fmt.Println("GitHub user explorer")
		fmt.Println("github.com/pders01/ghscout")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/ghscout/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "ghscout", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var lookupCmd = &cobra.Command{
	Use:          "lookup <login>",
	Short:        "Print a user's profile and one page of repositories",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runLookup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	rootCmd.Flags().BoolVar(&darkMode, "dark", false, "Start in dark mode")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "Color theme name")
	lookupCmd.Flags().IntVar(&lookupPage, "page", 1, "Repository page to fetch")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("dark") {
		cfg.UI.DarkMode = darkMode
	}
	if themeName != "" {
		cfg.UI.Theme = themeName
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !quiet {
		tui.ShowBanner(Version)
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	app := tui.NewApp(cfg, fetcher)
	if len(args) == 1 {
		app.SetInitialQuery(args[0])
	}

	debuglog.Infof("starting ghscout %s", Version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer debuglog.Close()

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	session, err := explorer.Lookup(cmd.Context(), fetcher, args[0], lookupPage)
	printSession(cmd.OutOrStdout(), session)
	return err
}

// printSession writes whatever the session holds: a profile that loaded
// is printed even when its repositories failed.
func printSession(w io.Writer, s *explorer.Session) {
	if p := s.Profile(); p != nil {
		fmt.Fprintf(w, "%s (@%s)\n", p.DisplayName(), p.Login)
		if p.Bio != "" {
			fmt.Fprintln(w, strings.Join(strings.Fields(p.Bio), " "))
		}
		meta := []string{
			fmt.Sprintf("%d followers", p.Followers),
			fmt.Sprintf("%d public repos", p.PublicRepos),
		}
		if p.Location != "" {
			meta = append([]string{p.Location}, meta...)
		}
		fmt.Fprintln(w, strings.Join(meta, " • "))
		if p.HTMLURL != "" {
			fmt.Fprintln(w, p.HTMLURL)
		}
	}

	if !s.HasResults() {
		return
	}

	pages := max((s.TotalRepos()+explorer.PageSize-1)/explorer.PageSize, 1)
	fmt.Fprintf(w, "\nRepositories (Page %d of %d)\n", s.Page(), pages)
	for i, r := range s.Repos() {
		n := (s.Page()-1)*explorer.PageSize + i + 1
		fmt.Fprintf(w, "%3d. %s  ★ %d  ⑂ %d", n, r.Name, r.StargazersCount, r.ForksCount)
		if r.Language != "" {
			fmt.Fprintf(w, "  %s", r.Language)
		}
		fmt.Fprintln(w)

		desc := strings.Join(strings.Fields(r.Description), " ")
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(w, "     %s\n", desc)
	}
}
