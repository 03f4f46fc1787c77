package player

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/chordplay/drum"
	"github.com/jsphweid/chordplay/model"
	"github.com/jsphweid/chordplay/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Synth is the part of the synthesizer link the scheduler drives.
type Synth interface {
	NoteOn(channel, note, velocity uint8) error
	NoteOff(channel, note uint8) error
	AllNotesOff(channels ...uint8) error
}

type Recorder interface {
	Record(ctx context.Context, rec model.SessionRecord) error
}

type State int

const (
	Idle State = iota
	Starting
	Playing
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Playing:
		return "playing"
	default:
		return "stopping"
	}
}

// Scheduler plays one session at a time against a Synth.
type Scheduler struct {
	synth Synth
	opts  options
	log   *zap.Logger

	// mu serializes Start and Stop, so a new session is only installed after
	// the previous one has fully retired.
	mu sync.Mutex

	// stateMu guards the fields below; the worker takes it when it finishes.
	stateMu sync.Mutex
	state   State
	current *Session
	last    *Session
}

func New(synth Synth, opts ...Option) *Scheduler {
	o := applyDefaultOptions(opts...)
	return &Scheduler{
		synth: synth,
		opts:  o,
		log:   o.log.Named("player"),
	}
}

// Start stops whatever is playing, waits for it to retire, and then starts
// playing req in the background. Invalid requests are rejected before the
// current session is touched.
func (s *Scheduler) Start(req Request) (*Session, error) {
	chords, pattern, err := voice(req, s.opts.resolver)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.stopLocked(); err != nil {
		s.log.Warn("stopping previous session", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		ID:       uuid.New().String(),
		Request:  req,
		Started:  time.Now(),
		chords:   chords,
		drums:    pattern,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		sounding: make(map[noteKey]int),
	}

	s.stateMu.Lock()
	s.state = Starting
	s.current = sess
	go s.run(sess)
	s.state = Playing
	s.stateMu.Unlock()

	s.log.Info("playback started",
		zap.String("session", sess.ID),
		zap.Int("chords", len(chords)),
		zap.Int("tempo", req.Tempo),
		zap.String("tonic", req.Key.Tonic),
		zap.String("mode", string(req.Key.Mode)),
		zap.Bool("drums", pattern != nil))
	return sess, nil
}

// Validate reports whether Start would accept req.
func (s *Scheduler) Validate(req Request) error {
	_, _, err := voice(req, s.opts.resolver)
	return err
}

// Stop cancels the active session, silences the synthesizer right away and
// waits for the worker to exit. Stopping while idle does nothing.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Scheduler) stopLocked() error {
	s.stateMu.Lock()
	sess := s.current
	if sess == nil {
		s.stateMu.Unlock()
		return nil
	}
	s.state = Stopping
	s.stateMu.Unlock()

	sess.cancel()
	err := s.synth.AllNotesOff(sess.channels(s.opts.channel)...)
	<-sess.done

	s.stateMu.Lock()
	if s.current == sess {
		s.current = nil
	}
	s.state = Idle
	s.stateMu.Unlock()

	s.log.Info("playback stopped", zap.String("session", sess.ID))
	if err != nil {
		return errors.Wrap(err, "silencing synthesizer")
	}
	return nil
}

func (s *Scheduler) State() State {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// Current returns the active session, or nil when idle.
func (s *Scheduler) Current() *Session {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.current
}

// Last returns the most recently finished session.
func (s *Scheduler) Last() *Session {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.last
}

func (s *Scheduler) run(sess *Session) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrSessionAborted, "panic: %v", r)
		}
		s.finish(sess, err)
	}()
	err = s.play(sess)
}

func (s *Scheduler) finish(sess *Session, err error) {
	if err != nil {
		s.log.Error("playback aborted", zap.String("session", sess.ID), zap.Error(err))
		// treat it like a stop
		sess.cancel()
		if offErr := s.synth.AllNotesOff(sess.channels(s.opts.channel)...); offErr != nil {
			s.log.Error("silencing after abort", zap.Error(offErr))
		}
		sess.err = err
	}
	s.release(sess)
	s.record(sess)

	s.stateMu.Lock()
	if s.current == sess {
		s.current = nil
		s.state = Idle
	}
	s.last = sess
	s.stateMu.Unlock()
	close(sess.done)
}

// release turns off anything this session left sounding.
func (s *Scheduler) release(sess *Session) {
	for k := range sess.sounding {
		if err := s.synth.NoteOff(k.channel, k.note); err != nil {
			s.log.Warn("releasing note", zap.Uint8("note", k.note), zap.Error(err))
			return
		}
		delete(sess.sounding, k)
	}
}

func (s *Scheduler) record(sess *Session) {
	if s.opts.recorder == nil {
		return
	}

	rec := model.SessionRecord{
		Id:       sess.ID,
		Tempo:    sess.Request.Tempo,
		Key:      sess.Request.Key,
		Outcome:  "completed",
		Started:  sess.Started,
		Finished: time.Now(),
	}
	for _, c := range sess.Request.Progression {
		rec.Symbols = append(rec.Symbols, c.Symbol)
	}
	if sess.Request.Drums != nil {
		rec.Drums = *sess.Request.Drums
	}
	switch {
	case sess.err != nil:
		rec.Outcome = "failed"
		rec.Error = sess.err.Error()
	case sess.Cancelled():
		rec.Outcome = "stopped"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.opts.recorder.Record(ctx, rec); err != nil {
		s.log.Warn("recording session", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (s *Scheduler) noteOn(sess *Session, channel, note, velocity uint8) error {
	if err := s.synth.NoteOn(channel, note, velocity); err != nil {
		return err
	}
	sess.sounding[noteKey{channel, note}]++
	return nil
}

func (s *Scheduler) noteOff(sess *Session, channel, note uint8) error {
	if err := s.synth.NoteOff(channel, note); err != nil {
		return err
	}
	delete(sess.sounding, noteKey{channel, note})
	return nil
}

// play is the worker loop. Cancellation is checked at every chord boundary
// and every wait is interruptible.
func (s *Scheduler) play(sess *Session) error {
	tempo := sess.Request.Tempo
	start := time.Now()
	at := func(tick int) time.Time {
		return start.Add(ChordDuration(tempo, tick))
	}

	tick := 0
	for _, c := range sess.chords {
		if sess.Cancelled() {
			return nil
		}
		s.log.Debug("chord",
			zap.String("session", sess.ID),
			zap.String("symbol", c.symbol),
			zap.Int("eighths", c.duration))

		for _, n := range c.notes {
			if sess.Cancelled() {
				return nil
			}
			if err := s.noteOn(sess, s.opts.channel, n, s.opts.velocity); err != nil {
				return err
			}
		}

		if sess.drums == nil {
			if !waitUntil(sess.ctx, at(tick+c.duration)) {
				return nil
			}
		} else {
			for slot := 0; slot < c.duration; slot++ {
				ok, err := s.pulse(sess, tick+slot, at(tick+slot), at(tick+slot+1))
				if err != nil || !ok {
					return err
				}
			}
		}
		tick += c.duration

		for _, n := range c.notes {
			if err := s.noteOff(sess, s.opts.channel, n); err != nil {
				return err
			}
		}
	}
	return nil
}

// pulse plays the drum hits for one eighth-note slot and waits out the slot.
func (s *Scheduler) pulse(sess *Session, tick int, slotStart, slotEnd time.Time) (bool, error) {
	hits := drum.VoicesAt(*sess.drums, tick)
	for _, h := range hits {
		if err := s.noteOn(sess, drum.Channel, h.Note, h.Velocity); err != nil {
			return false, err
		}
	}

	if len(hits) > 0 {
		pulse := util.Min(s.opts.drumPulse, slotEnd.Sub(slotStart))
		if !waitUntil(sess.ctx, slotStart.Add(pulse)) {
			return false, nil
		}
		for _, h := range hits {
			if err := s.noteOff(sess, drum.Channel, h.Note); err != nil {
				return false, err
			}
		}
	}
	return waitUntil(sess.ctx, slotEnd), nil
}
