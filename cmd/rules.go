package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nsxbet/upgrade-checker/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the compatibility rule catalog",
	Long: `List every rule in the catalog with its ID, category, severity and
the kind of input it inspects.`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tKIND")
	for _, r := range rules.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Category, r.Severity, r.Kind)
	}
	return w.Flush()
}
