package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HeatherCyber/BlitzBuy/cmd/blitzbuy/ui"
	"github.com/HeatherCyber/BlitzBuy/internal/api"
	"github.com/HeatherCyber/BlitzBuy/internal/config"
	"github.com/HeatherCyber/BlitzBuy/internal/logging"
	"github.com/HeatherCyber/BlitzBuy/internal/session"
)

var (
	// Global flags
	verbose      bool
	apiBaseURL   string
	flashBaseURL string

	// Logger for the one-shot subcommands
	logger *zap.Logger
)

// rootCmd launches the interactive shopping client.
var rootCmd = &cobra.Command{
	Use:   "blitzbuy",
	Short: "BlitzBuy - terminal client for the BlitzBuy flash-sale shop",
	Long: `BlitzBuy is a terminal client for the BlitzBuy flash-sale backend.

Run without arguments to start the interactive shopping interface:
browse flash sales, watch the countdown, solve the captcha and race
for the limited stock.

Subcommands (login, goods, order, pay) drive the same backend
gateways for scripted use.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI logs to a file instead; see runInteractive.
		if cmd == cmd.Root() {
			return nil
		}
		var err error
		logger, err = logging.NewConsole(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// loadConfig resolves config and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if apiBaseURL != "" {
		cfg.APIBaseURL = apiBaseURL
	}
	if flashBaseURL != "" {
		cfg.FlashSaleBaseURL = flashBaseURL
	}
	return cfg, nil
}

// newClient builds the gateway client for a command.
func newClient(cfg config.Config, log *zap.Logger) (*api.Client, error) {
	return api.NewClient(api.Config{
		APIBaseURL:       cfg.APIBaseURL,
		FlashSaleBaseURL: cfg.FlashSaleBaseURL,
		Timeout:          cfg.Timeout(),
		Logger:           log,
	})
}

// newSessionStore opens the persisted session.
func newSessionStore() (*session.Store, error) {
	path, err := session.DefaultPath()
	if err != nil {
		return nil, err
	}
	return session.NewStore(path), nil
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	log, err := logging.NewFile(dir, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := newSessionStore()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	app := ui.NewApp(ui.Deps{
		Client:  client,
		Session: store,
		Log:     log,
		Styles:  ui.NewStyles(ui.ThemeByName(cfg.Theme)),
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", "", "override the REST API root")
	rootCmd.PersistentFlags().StringVar(&flashBaseURL, "flash-base-url", "", "override the flash-sale endpoint root")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(goodsCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(payCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
