package player

import (
	"time"

	"github.com/jsphweid/chordplay/chord"
	"go.uber.org/zap"
)

type options struct {
	channel   uint8
	velocity  uint8
	drumPulse time.Duration
	resolver  chord.Resolver
	recorder  Recorder
	log       *zap.Logger
}

type Option func(*options)

// WithChannel sets the channel chords are played on.
func WithChannel(ch uint8) Option {
	return func(o *options) {
		o.channel = ch
	}
}

func WithVelocity(v uint8) Option {
	return func(o *options) {
		o.velocity = v
	}
}

// WithDrumPulse sets how long each drum hit sounds. It is capped at one
// eighth note.
func WithDrumPulse(d time.Duration) Option {
	return func(o *options) {
		o.drumPulse = d
	}
}

func WithResolver(r chord.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithRecorder stores a record of every finished session.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func applyDefaultOptions(opts ...Option) options {
	o := options{
		velocity:  100,
		drumPulse: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	return o
}
