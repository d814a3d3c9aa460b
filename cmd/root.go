package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "upgrade-checker",
	Short: "Offline MySQL upgrade compatibility checker",
	Long: `upgrade-checker analyzes a database export offline (schema dumps,
option files, row data, export metadata) and reports compatibility problems
that would break or silently change behavior when upgrading across a major
MySQL version boundary (5.7 to 8.0 by default).

It never connects to a server: everything is derived from the files you
pass it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}
