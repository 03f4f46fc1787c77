package player

import (
	"context"
	"time"

	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/drum"
	"github.com/jsphweid/chordplay/model"
	"github.com/pkg/errors"
)

var (
	ErrInvalidTempo     = errors.New("tempo must be greater than zero")
	ErrInvalidDuration  = errors.New("chord duration must be at least one eighth note")
	ErrEmptyProgression = errors.New("progression is empty")
	ErrSessionAborted   = errors.New("playback session aborted")
)

// Request is everything needed to play one progression.
type Request struct {
	Progression model.Progression
	Tempo       int
	Key         model.Key
	Drums       *model.DrumSettings
}

type voicedChord struct {
	symbol   string
	notes    [3]uint8
	duration int
}

type noteKey struct {
	channel uint8
	note    uint8
}

// Session is one run of a progression. Once cancelled it is never resumed;
// a new Start replaces it.
type Session struct {
	ID      string
	Request Request
	Started time.Time

	chords []voicedChord
	drums  *drum.Pattern

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error

	// only touched by the worker
	sounding map[noteKey]int
}

// Done is closed when the worker has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err is the reason the session ended abnormally, if any. It is only
// meaningful after Done is closed.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Session) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Session) channels(chordChannel uint8) []uint8 {
	if s.drums != nil && drum.Channel != chordChannel {
		return []uint8{chordChannel, drum.Channel}
	}
	return []uint8{chordChannel}
}

// voice validates a request and resolves all of its chords up front so bad
// symbols are reported before anything sounds.
func voice(req Request, resolver chord.Resolver) ([]voicedChord, *drum.Pattern, error) {
	if req.Tempo <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidTempo, "got %d", req.Tempo)
	}
	if len(req.Progression) == 0 {
		return nil, nil, ErrEmptyProgression
	}

	chords := make([]voicedChord, 0, len(req.Progression))
	for i, c := range req.Progression {
		if c.Duration < 1 {
			return nil, nil, errors.Wrapf(ErrInvalidDuration, "chord %d (%v) has duration %d", i, c.Symbol, c.Duration)
		}
		notes, err := resolver.ResolveKey(c.Symbol, req.Key)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "chord %d", i)
		}
		chords = append(chords, voicedChord{symbol: c.Symbol, notes: notes, duration: c.Duration})
	}

	if req.Drums == nil || !req.Drums.Enabled {
		return chords, nil, nil
	}
	name := req.Drums.Pattern
	if name == "" {
		name = drum.DefaultPattern
	}
	p, err := drum.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	return chords, &p, nil
}
