package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lifeboat",
	Short: "Lifeboat trains and selects survival classifiers",
	Long: `Lifeboat runs the full passenger-survival pipeline: it loads the
training table, trains every configured algorithm under five resampling
policies, keeps the best cross-validated model and writes predictions for
the test table.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "lifeboat.yaml", "Path to the YAML configuration file")
}
