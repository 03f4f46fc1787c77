package cmd

import (
	"fmt"

	"github.com/jsphweid/chordplay/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the note events of a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "time format: %v\n", file.TimeFormat)
		for _, e := range midi.NoteEvents(file) {
			kind := "off"
			if e.On {
				kind = "on "
			}
			fmt.Fprintf(out, "%8d %v ch %2d key %3d vel %3d\n", e.Tick, kind, e.Channel, e.Key, e.Velocity)
		}
		return nil
	},
}
