package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wcms-labs/wcms-modules/internal/branding"
	"github.com/wcms-labs/wcms-modules/internal/config"
	"github.com/wcms-labs/wcms-modules/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` builds the module registry (wcms-modules.json) from lists of plugin
and theme repositories. Each repository contributes either its own
wcms-modules.json manifest or metadata read from the legacy summary,
version, and preview files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(cfgFile); err != nil {
			return err
		}
		flags := cmd.Root().PersistentFlags()
		if err := config.BindFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
			return err
		}
		if err := config.BindFlag(config.KeyLogFormat, flags.Lookup("log-format")); err != nil {
			return err
		}

		s := config.Current()
		logger, err := logging.New(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel in-flight requests.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
