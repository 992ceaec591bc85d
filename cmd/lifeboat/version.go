package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grailbox/lifeboat"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lifeboat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lifeboat version %s\n", lifeboat.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
