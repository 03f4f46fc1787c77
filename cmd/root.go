package cmd

import (
	"github.com/jsphweid/chordplay/constants"
	"github.com/jsphweid/chordplay/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug bool
	log   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "chordplay",
	Short: "Plays roman numeral chord progressions",
	Long: `chordplay voices roman numeral chord progressions in a key and plays
them through a fluidsynth subprocess, optionally over a drum pattern.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.Must(debug || constants.IsDebug())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "development logging at debug level")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
