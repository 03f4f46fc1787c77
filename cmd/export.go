package cmd

import (
	"github.com/jsphweid/chordplay/midi"
	"github.com/jsphweid/chordplay/progression"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOut string

func init() {
	addSongFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "progression.mid", "file to write")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <progression>",
	Short: "Writes a progression to a standard MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := progression.Parse(args[0])
		if err != nil {
			return err
		}
		req, err := toRequest(songBody(prog))
		if err != nil {
			return err
		}
		res, err := resolver()
		if err != nil {
			return err
		}

		opts := midi.DefaultRenderOptions()
		opts.Resolver = res
		file, err := midi.Render(midi.Song{
			Progression: req.Progression,
			Tempo:       req.Tempo,
			Key:         req.Key,
			Drums:       req.Drums,
		}, opts)
		if err != nil {
			return err
		}
		if err := midi.WriteMidiFile(exportOut, file); err != nil {
			return err
		}
		log.Info("exported", zap.String("file", exportOut), zap.Int("chords", len(prog)))
		return nil
	},
}
