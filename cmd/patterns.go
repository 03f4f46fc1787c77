package cmd

import (
	"fmt"

	"github.com/jsphweid/chordplay/drum"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(patternsCmd)
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Lists drum patterns",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range drum.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
