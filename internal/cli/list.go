package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wcms-labs/wcms-modules/internal/config"
	"github.com/wcms-labs/wcms-modules/internal/manifest"
	"github.com/wcms-labs/wcms-modules/internal/registry"
)

var (
	listType   string
	listSearch string
)

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "Only list plugins or themes")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by directory name, name, or summary")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [registry]",
	Short: "List the modules in a registry file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Current().Output
		if len(args) == 1 {
			path = args[0]
		}

		categories := manifest.Categories
		if listType != "" {
			c, err := manifest.ParseCategory(listType)
			if err != nil {
				return err
			}
			categories = []manifest.Category{c}
		}

		reg, err := registry.Load(path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tDIR\tNAME\tVERSION")
		count := 0
		for _, c := range categories {
			mods := reg.Modules(c)
			for _, dir := range mods.Names() {
				mod := mods[dir]
				if !matchesSearch(dir, mod, listSearch) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Label(), dir, mod.Name, mod.Version)
				count++
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d modules (generated %s)\n", count, reg.Timestamp)
		return nil
	},
}

// matchesSearch reports whether a module matches a case-insensitive query.
// An empty query matches everything.
func matchesSearch(dir string, mod manifest.Module, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{dir, mod.Name, mod.Summary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
