package cmd

import (
	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/constants"
	"github.com/jsphweid/chordplay/model"
	"github.com/jsphweid/chordplay/player"
	"github.com/jsphweid/chordplay/synth"
	"github.com/pkg/errors"
)

func synthConfig() synth.Config {
	cfg := synth.DefaultConfig()
	cfg.Binary = constants.GetSynthBinary()
	cfg.SoundBank = constants.GetSoundBankPath()
	cfg.Render = constants.IsRender()
	cfg.PulseSocket = constants.GetPulseSocket()
	return cfg
}

func resolver() (chord.Resolver, error) {
	policy, err := chord.ParseAccidentalPolicy(constants.GetAccidentalPolicy())
	if err != nil {
		return chord.Resolver{}, err
	}
	return chord.Resolver{Accidentals: policy}, nil
}

// toRequest fills in the defaults a client may leave out: tempo 120 and
// C major.
func toRequest(body model.PlayRequestBody) (player.Request, error) {
	tempo := body.Tempo
	if tempo == 0 {
		tempo = constants.DefaultTempo
	}
	tonic := body.Tonic
	if tonic == "" {
		tonic = "C"
	}
	mode := model.Major
	if body.Mode != "" {
		m, err := chord.ParseMode(body.Mode)
		if err != nil {
			return player.Request{}, err
		}
		mode = m
	}
	if _, err := chord.TonicPitch(tonic); err != nil {
		return player.Request{}, err
	}

	return player.Request{
		Progression: body.Progression,
		Tempo:       tempo,
		Key:         model.Key{Tonic: tonic, Mode: mode},
		Drums:       body.Drums,
	}, nil
}

var errBadBody = errors.New("could not decode request body")
