package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wcms-labs/wcms-modules/internal/config"
	"github.com/wcms-labs/wcms-modules/internal/fetch"
	"github.com/wcms-labs/wcms-modules/internal/repo"
)

var resolveJSON bool

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print resolved info as JSON")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <repo-url>...",
	Short: "Show the branch and URLs a repository resolves to",
	Long: `Resolves each repository URL the same way build does: an explicit
/tree/<branch> segment is used as-is, otherwise master and then main are
probed on GitHub.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.Current()
		client := fetch.New(fetch.WithTimeout(s.Timeout), fetch.WithToken(s.GitHubToken))
		resolver := repo.NewResolver(client, repo.WithGitHubBase(s.GitHubURL), repo.WithRawBase(s.RawURL))

		out := cmd.OutOrStdout()
		var all []repo.Resolved
		for _, url := range args {
			r, err := resolver.Resolve(cmd.Context(), url)
			if err != nil {
				return err
			}
			if resolveJSON {
				all = append(all, r)
				continue
			}
			fmt.Fprintf(out, "%s\n", url)
			fmt.Fprintf(out, "  Branch:  %s\n", r.Branch)
			fmt.Fprintf(out, "  Raw:     %s\n", r.RawPrefix)
			fmt.Fprintf(out, "  Zip:     %s\n", r.ZipURL)
			fmt.Fprintf(out, "  HTML:    %s\n", r.HTMLURL)
		}

		if resolveJSON {
			data, err := json.MarshalIndent(all, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling resolved repositories: %w", err)
			}
			fmt.Fprintln(out, string(data))
		}
		return nil
	},
}
