package synth

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrSynthesizerUnavailable means the synthesizer cannot be started at
	// all, e.g. the sound bank is missing.
	ErrSynthesizerUnavailable = errors.New("synthesizer unavailable")
	// ErrSynthesizerProcessDied means a command failed again after the one
	// allowed restart.
	ErrSynthesizerProcessDied = errors.New("synthesizer process died")

	errNotRunning = errors.New("synthesizer not running")
)

type State int

const (
	Stopped State = iota
	Healthy
	Restarting
	Failed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Healthy:
		return "healthy"
	case Restarting:
		return "restarting"
	default:
		return "failed"
	}
}

// restartBudget is how many restarts a single command may trigger.
const restartBudget = 1

// Link owns the synthesizer subprocess. Every write goes through mu so
// commands never interleave on the pipe.
type Link struct {
	cfg      Config
	launcher Launcher
	log      *zap.Logger

	mu       sync.Mutex
	proc     Process
	state    State
	launches int
}

func New(cfg Config, launcher Launcher, log *zap.Logger) *Link {
	if log == nil {
		log = zap.NewNop()
	}
	if launcher == nil {
		launcher = ExecLauncher{Log: log}
	}
	return &Link{cfg: cfg, launcher: launcher, log: log.Named("synth")}
}

// Start launches the synthesizer and selects the instrument program.
func (l *Link) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.startLocked()
}

func (l *Link) startLocked() error {
	if _, err := os.Stat(l.cfg.SoundBank); err != nil {
		l.state = Failed
		return errors.Wrapf(ErrSynthesizerUnavailable, "sound bank: %v", err)
	}
	progCmd, err := ProgramCommand(l.cfg.Channel, l.cfg.Program)
	if err != nil {
		return err
	}

	if l.proc != nil {
		if err := l.proc.Stop(l.cfg.Grace); err != nil {
			l.log.Warn("stopping previous synthesizer", zap.Error(err))
		}
		l.proc = nil
	}

	args := l.cfg.Args()
	l.log.Info("starting synthesizer",
		zap.String("binary", l.cfg.Binary),
		zap.Strings("args", args),
		zap.String("driver", l.cfg.AudioDriver()))

	proc, err := l.launcher.Launch(l.cfg.Binary, args, l.cfg.Env())
	l.launches++
	if err != nil {
		l.state = Failed
		return errors.Wrapf(ErrSynthesizerUnavailable, "launch: %v", err)
	}
	l.proc = proc

	if err := proc.WriteLine(progCmd); err != nil {
		l.state = Failed
		return errors.Wrap(err, "selecting program")
	}
	l.state = Healthy
	return nil
}

func (l *Link) writeLocked(cmd string) error {
	if l.proc == nil || !l.proc.Alive() {
		return errNotRunning
	}
	return l.proc.WriteLine(cmd)
}

// sendLocked is the healthy/restarting machine: a failed write moves to
// Restarting and spends the budget on one restart; a failure with no budget
// left is fatal.
func (l *Link) sendLocked(cmd string) error {
	budget := restartBudget
	for {
		err := l.writeLocked(cmd)
		if err == nil {
			l.state = Healthy
			return nil
		}
		if budget == 0 {
			l.state = Failed
			return errors.Wrapf(ErrSynthesizerProcessDied, "%q: %v", cmd, err)
		}
		budget--

		l.state = Restarting
		l.log.Warn("synthesizer write failed, restarting", zap.String("cmd", cmd), zap.Error(err))
		if err := l.startLocked(); err != nil {
			l.state = Failed
			return errors.Wrapf(ErrSynthesizerProcessDied, "restart: %v", err)
		}
	}
}

// SendCommand writes one protocol line, restarting the synthesizer once if
// it has died.
func (l *Link) SendCommand(cmd string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sendLocked(cmd)
}

func (l *Link) NoteOn(channel, note, velocity uint8) error {
	cmd, err := NoteOnCommand(channel, note, velocity)
	if err != nil {
		return err
	}
	return l.SendCommand(cmd)
}

func (l *Link) NoteOff(channel, note uint8) error {
	cmd, err := NoteOffCommand(channel, note)
	if err != nil {
		return err
	}
	return l.SendCommand(cmd)
}

// AllNotesOff sends a note-off for all 128 notes on each channel given, or
// on the configured channel when none are. The whole batch is written under
// one lock so nothing else lands in the middle of it.
func (l *Link) AllNotesOff(channels ...uint8) error {
	if len(channels) == 0 {
		channels = []uint8{l.cfg.Channel}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range channels {
		for note := 0; note < 128; note++ {
			cmd, err := NoteOffCommand(ch, uint8(note))
			if err != nil {
				return err
			}
			if err := l.sendLocked(cmd); err != nil {
				return err
			}
		}
	}
	return nil
}

// Shutdown asks the synthesizer to quit and then terminates it.
func (l *Link) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.proc == nil {
		return nil
	}

	var err error
	if l.proc.Alive() {
		err = multierr.Append(err, l.proc.WriteLine(QuitCommand))
	}
	err = multierr.Append(err, l.proc.Stop(l.cfg.Grace))
	l.proc = nil
	l.state = Stopped
	l.log.Info("synthesizer shut down")
	return err
}

func (l *Link) Channel() uint8 {
	return l.cfg.Channel
}

func (l *Link) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Launches counts launch attempts, restarts included.
func (l *Link) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}
