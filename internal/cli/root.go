// Package cli contains the trends-explorer commands.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trends-explorer/internal/config"
	"trends-explorer/pkg/logger"
	"trends-explorer/pkg/trends"
)

var version = "dev"

// SetVersion sets the version string reported by the CLI.
func SetVersion(v string) {
	version = v
}

// ProviderFactory builds the trends provider used by analyze.
type ProviderFactory func(cfg trends.Config, l *logger.Logger) (trends.Provider, error)

// App holds state shared by the commands of one invocation.
type App struct {
	configPath  string
	logLevel    string
	manager     config.Manager
	cfg         *config.Config
	log         *logger.Logger
	newProvider ProviderFactory
}

// Option customizes an App.
type Option func(*App)

// WithProviderFactory replaces the Google Trends client.
func WithProviderFactory(f ProviderFactory) Option {
	return func(a *App) {
		a.newProvider = f
	}
}

func defaultProvider(cfg trends.Config, l *logger.Logger) (trends.Provider, error) {
	return trends.NewClient(cfg, trends.WithLogger(l))
}

// NewRootCommand builds the command tree.
func NewRootCommand(out io.Writer, opts ...Option) *cobra.Command {
	app := &App{
		manager:     config.NewManager(),
		newProvider: defaultProvider,
	}
	for _, opt := range opts {
		opt(app)
	}

	root := &cobra.Command{
		Use:   "trends-explorer",
		Short: "Explore and classify Google Trends interest for keywords",
		Long: `trends-explorer fetches Google Trends interest for a list of keywords,
charts it and classifies each keyword's five-year trend shape.

Example usage:
  trends-explorer analyze --keywords "event planning, event planner"
  trends-explorer analyze --keywords "yoga" --geo US --out ./reports
  trends-explorer bands`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCommand(app),
		newBandsCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI against args.
func Execute(out io.Writer, args []string, opts ...Option) error {
	root := NewRootCommand(out, opts...)
	root.SetArgs(args)
	return root.Execute()
}

func (a *App) init(cmd *cobra.Command) error {
	bindings := map[string]string{
		"logger.level":         "log-level",
		"analysis.concurrency": "concurrency",
		"analysis.top_regions": "top-regions",
		"export.dir":           "out",
	}
	for key, name := range bindings {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := a.manager.BindFlag(key, flag); err != nil {
				return err
			}
		}
	}

	cfg, err := a.manager.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	a.log = logger.New(cfg.Logger)
	logger.SetLogger(a.log)
	a.log.WithFields(map[string]interface{}{
		"config":    a.configPath,
		"base_urls": cfg.Trends.BaseURLs,
		"rps":       cfg.Trends.RequestsPerSecond,
	}).Debug("Configuration loaded")
	return nil
}
