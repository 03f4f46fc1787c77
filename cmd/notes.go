package cmd

import (
	"fmt"

	"github.com/jsphweid/chordplay/chord"
	"github.com/spf13/cobra"
)

var notesFlags struct {
	tonic string
	mode  string
}

func init() {
	notesCmd.Flags().StringVarP(&notesFlags.tonic, "tonic", "k", "C", "tonic")
	notesCmd.Flags().StringVarP(&notesFlags.mode, "mode", "m", "major", "major or minor")
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes <symbol>...",
	Short: "Prints the MIDI notes of chord symbols",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := resolver()
		if err != nil {
			return err
		}
		mode, err := chord.ParseMode(notesFlags.mode)
		if err != nil {
			return err
		}
		for _, symbol := range args {
			notes, err := res.ResolveTriad(symbol, notesFlags.tonic, mode)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\t%v\n", symbol, chord.CreateChordKey(notes[:]))
		}
		return nil
	},
}
