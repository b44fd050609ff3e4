package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wcms-labs/wcms-modules/internal/manifest"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check wcms-modules.json manifests before publishing",
	Long: `Checks each manifest the way build will when it finds one in a
repository: the format version must be 1 and the document must match the
manifest schema. Missing fields and non-semver versions are reported as
warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			m, err := manifest.ParseFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "[FAIL] %s\n", path)
				if errors.Is(err, manifest.ErrInvalidManifest) {
					if result, verr := manifest.ValidateFile(path); verr == nil && !result.Valid {
						for _, issue := range result.Issues {
							fmt.Fprintf(out, "  %s: %s\n", issuePath(issue.Path), issue.Message)
						}
						continue
					}
				}
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}

			fmt.Fprintf(out, "[ OK ] %s (%d plugins, %d themes)\n", path, len(m.Plugins), len(m.Themes))
			for _, w := range manifest.Lint(m) {
				fmt.Fprintf(out, "  [WARN] %s\n", w)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d manifests invalid", failed, len(args))
		}
		return nil
	},
}

func issuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
