package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerpath"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of careerpath",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "careerpath version %s\n", strings.TrimSpace(careerpath.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
