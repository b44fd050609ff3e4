package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"
	"github.com/wcms-labs/wcms-modules/internal/aggregate"
	"github.com/wcms-labs/wcms-modules/internal/config"
	"github.com/wcms-labs/wcms-modules/internal/fetch"
	"github.com/wcms-labs/wcms-modules/internal/logging"
	"github.com/wcms-labs/wcms-modules/internal/metadata"
	"github.com/wcms-labs/wcms-modules/internal/registry"
	"github.com/wcms-labs/wcms-modules/internal/repo"
)

var buildDryRun bool

func init() {
	buildCmd.Flags().String("plugins", "", "Plugin repository list (default plugins-list.json)")
	buildCmd.Flags().String("themes", "", "Theme repository list (default themes-list.json)")
	buildCmd.Flags().StringP("output", "o", "", "Registry file to write (default wcms-modules.json)")
	buildCmd.Flags().Int("concurrency", aggregate.DefaultConcurrency, "Repositories fetched at once per list")
	buildCmd.Flags().Duration("timeout", config.DefaultTimeout, "Per-request timeout")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Print the registry to stdout instead of writing it")

	rootCmd.AddCommand(buildCmd)
}

var buildFlagKeys = map[string]string{
	"plugins":     config.KeyPluginsList,
	"themes":      config.KeyThemesList,
	"output":      config.KeyOutput,
	"concurrency": config.KeyConcurrency,
	"timeout":     config.KeyTimeout,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Fetch module metadata and write the registry",
	Long: `Reads the plugin and theme repository lists, fetches the metadata of every
repository, and replaces the registry file. The two lists are processed in
parallel; repositories within a list are fetched one at a time unless
--concurrency is raised. Any failure aborts the run and leaves the existing
registry untouched.

  wcms-modules build
  wcms-modules build --plugins plugins.txt --themes themes.txt -o out/wcms-modules.json
  wcms-modules build --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for name, key := range buildFlagKeys {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				if err := config.BindFlag(key, f); err != nil {
					return err
				}
			}
		}
		s := config.Current()
		ctx := cmd.Context()
		logger := logging.FromContext(ctx)

		client := fetch.New(fetch.WithTimeout(s.Timeout), fetch.WithToken(s.GitHubToken))
		resolver := repo.NewResolver(client, repo.WithGitHubBase(s.GitHubURL), repo.WithRawBase(s.RawURL))
		agg := aggregate.New(resolver, metadata.NewFetcher(client), aggregate.WithConcurrency(s.Concurrency))

		logger.Debug("building registry", "plugins", s.PluginsList, "themes", s.ThemesList, "concurrency", s.Concurrency, "timeout", client.Timeout())
		reg, err := registry.NewBuilder(agg).Build(ctx, registry.Sources{
			Plugins: s.PluginsList,
			Themes:  s.ThemesList,
		})
		if err != nil {
			return err
		}

		if buildDryRun {
			data, err := registry.Marshal(reg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		previous, err := registry.Load(s.Output)
		switch {
		case err == nil:
			for _, change := range registry.Diff(previous, reg) {
				logger.Info(change.String())
			}
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no previous registry", "path", s.Output)
		default:
			logger.Warn("ignoring unreadable previous registry", "path", s.Output, "error", err)
		}

		if err := registry.Write(s.Output, reg); err != nil {
			return err
		}
		logger.Info("registry written", "path", s.Output, "plugins", len(reg.Plugins), "themes", len(reg.Themes))
		return nil
	},
}
