package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/chordplay/model"
	"github.com/jsphweid/chordplay/player"
	"github.com/jsphweid/chordplay/progression"
	"github.com/jsphweid/chordplay/synth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var songFlags struct {
	tempo int
	tonic string
	mode  string
	drums string
}

var playFlags struct {
	file   string
	column string
}

func init() {
	addSongFlags(playCmd)
	playCmd.Flags().StringVarP(&playFlags.file, "file", "f", "", "play every progression in a .txt or .csv file")
	playCmd.Flags().StringVar(&playFlags.column, "column", progression.DefaultColumn, "csv column holding progressions")
	rootCmd.AddCommand(playCmd)
}

func addSongFlags(c *cobra.Command) {
	c.Flags().IntVarP(&songFlags.tempo, "tempo", "t", 120, "tempo in quarter notes per minute")
	c.Flags().StringVarP(&songFlags.tonic, "tonic", "k", "C", "tonic, e.g. C, F# or Bb")
	c.Flags().StringVarP(&songFlags.mode, "mode", "m", "major", "major, minor, M or m")
	c.Flags().StringVarP(&songFlags.drums, "drums", "d", "", "drum pattern to play along with")
}

func songBody(prog model.Progression) model.PlayRequestBody {
	body := model.PlayRequestBody{
		Progression: prog,
		Tempo:       songFlags.tempo,
		Tonic:       songFlags.tonic,
		Mode:        songFlags.mode,
	}
	if songFlags.drums != "" {
		body.Drums = &model.DrumSettings{Enabled: true, Pattern: songFlags.drums}
	}
	return body
}

var playCmd = &cobra.Command{
	Use:   "play [progression]",
	Short: "Plays a progression, e.g. I-V-vi-IV:4",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sources []string
		switch {
		case playFlags.file != "":
			loaded, err := progression.Load(playFlags.file, playFlags.column)
			if err != nil {
				return err
			}
			sources = loaded
		case len(args) == 1:
			sources = args
		default:
			return errors.New("need a progression or --file")
		}

		var reqs []player.Request
		for _, src := range sources {
			prog, err := progression.Parse(src)
			if err != nil {
				return err
			}
			req, err := toRequest(songBody(prog))
			if err != nil {
				return err
			}
			reqs = append(reqs, req)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return play(ctx, reqs)
	},
}

func play(ctx context.Context, reqs []player.Request) (err error) {
	res, err := resolver()
	if err != nil {
		return err
	}
	link := synth.New(synthConfig(), nil, log)
	if err := link.Start(); err != nil {
		return err
	}
	sched := player.New(link,
		player.WithChannel(link.Channel()),
		player.WithResolver(res),
		player.WithLogger(log))
	defer func() {
		err = multierr.Combine(err, sched.Stop(), link.Shutdown())
	}()

	for _, req := range reqs {
		sess, err := sched.Start(req)
		if err != nil {
			return err
		}
		select {
		case <-sess.Done():
			if err := sess.Err(); err != nil {
				return err
			}
		case <-ctx.Done():
			log.Info("interrupted", zap.String("session", sess.ID))
			return nil
		}
	}
	return nil
}
