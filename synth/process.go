package synth

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var errProcessExited = errors.New("synthesizer process exited")

// Process is a running synthesizer reading commands line by line.
type Process interface {
	// WriteLine writes one newline-terminated command and flushes it.
	WriteLine(line string) error
	Alive() bool
	// Stop terminates the process, killing it if it outlives grace.
	Stop(grace time.Duration) error
}

type Launcher interface {
	Launch(name string, args []string, env []string) (Process, error)
}

// ExecLauncher starts real subprocesses.
type ExecLauncher struct {
	Log *zap.Logger
}

func (l ExecLauncher) Launch(name string, args []string, env []string) (Process, error) {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdin pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stderr pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %v", name)
	}

	p := &execProcess{
		cmd:    cmd,
		stdin:  stdin,
		w:      bufio.NewWriter(stdin),
		exited: make(chan struct{}),
		log:    log.With(zap.Int("pid", cmd.Process.Pid)),
	}
	go p.wait()
	go p.drainStderr(stderr)
	return p, nil
}

type execProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	w     *bufio.Writer

	exited  chan struct{}
	waitErr error
	log     *zap.Logger
}

func (p *execProcess) wait() {
	p.waitErr = p.cmd.Wait()
	p.log.Info("synthesizer exited", zap.Error(p.waitErr))
	close(p.exited)
}

// drainStderr keeps the pipe from filling up. Bursts of output are
// collapsed into one log entry.
func (p *execProcess) drainStderr(r io.Reader) {
	debounced := debounce.New(250 * time.Millisecond)

	var mu sync.Mutex
	var last string
	var count int

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		mu.Lock()
		last = scanner.Text()
		count++
		mu.Unlock()

		debounced(func() {
			mu.Lock()
			line, n := last, count
			count = 0
			mu.Unlock()
			if n > 0 {
				p.log.Warn("synthesizer stderr", zap.String("line", line), zap.Int("lines", n))
			}
		})
	}
}

func (p *execProcess) Alive() bool {
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

func (p *execProcess) WriteLine(line string) error {
	if !p.Alive() {
		return errProcessExited
	}
	if _, err := p.w.WriteString(line + "\n"); err != nil {
		return err
	}
	return p.w.Flush()
}

func (p *execProcess) Stop(grace time.Duration) error {
	p.stdin.Close()
	if !p.Alive() {
		return nil
	}

	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// no SIGTERM on windows
		return p.kill()
	}
	select {
	case <-p.exited:
		return nil
	case <-time.After(grace):
		p.log.Warn("synthesizer ignored terminate, killing")
		return p.kill()
	}
}

func (p *execProcess) kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	<-p.exited
	return nil
}
