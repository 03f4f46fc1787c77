// Package synthtest provides an in-memory synthesizer for tests.
package synthtest

import (
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jsphweid/chordplay/synth"
)

// Launcher hands out fake processes that all record into the same log.
type Launcher struct {
	mu         sync.Mutex
	lines      []string
	launches   int
	failWrites int
	current    *Process
	launchErr  error
}

func NewLauncher() *Launcher {
	return &Launcher{}
}

func (l *Launcher) Launch(name string, args []string, env []string) (synth.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches++
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.current = &Process{launcher: l, alive: true}
	return l.current, nil
}

// BreakPipe makes the next n writes fail with EPIPE, killing the process
// each time.
func (l *Launcher) BreakPipe(n int) {
	l.mu.Lock()
	l.failWrites = n
	l.mu.Unlock()
}

// Crash marks the current process as exited.
func (l *Launcher) Crash() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		l.current.alive = false
	}
}

func (l *Launcher) FailLaunches(err error) {
	l.mu.Lock()
	l.launchErr = err
	l.mu.Unlock()
}

func (l *Launcher) Launches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

// Lines returns every command received so far, across processes.
func (l *Launcher) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type Process struct {
	launcher *Launcher
	alive    bool
	stopped  bool
}

func (p *Process) WriteLine(line string) error {
	l := p.launcher
	l.mu.Lock()
	defer l.mu.Unlock()
	if !p.alive {
		return syscall.EPIPE
	}
	if l.failWrites > 0 {
		l.failWrites--
		p.alive = false
		return syscall.EPIPE
	}
	l.lines = append(l.lines, line)
	if line == synth.QuitCommand {
		p.alive = false
	}
	return nil
}

func (p *Process) Alive() bool {
	p.launcher.mu.Lock()
	defer p.launcher.mu.Unlock()
	return p.alive
}

func (p *Process) Stop(grace time.Duration) error {
	p.launcher.mu.Lock()
	defer p.launcher.mu.Unlock()
	p.alive = false
	p.stopped = true
	return nil
}

// Event is a parsed noteon/noteoff line.
type Event struct {
	On       bool
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// Events parses note commands out of lines, skipping everything else.
func Events(lines []string) []Event {
	var res []Event
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var e Event
		switch fields[0] {
		case "noteon":
			if len(fields) != 4 {
				continue
			}
			e.On = true
			e.Velocity = atou8(fields[3])
		case "noteoff":
		default:
			continue
		}
		e.Channel = atou8(fields[1])
		e.Note = atou8(fields[2])
		res = append(res, e)
	}
	return res
}

func atou8(s string) uint8 {
	n, _ := strconv.Atoi(s)
	return uint8(n)
}

type NoteKey struct {
	Channel uint8
	Note    uint8
}

// Sounding returns the notes whose last event was a note-on.
func Sounding(lines []string) []NoteKey {
	last := make(map[NoteKey]bool)
	var order []NoteKey
	for _, e := range Events(lines) {
		k := NoteKey{e.Channel, e.Note}
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = e.On
	}
	var res []NoteKey
	for _, k := range order {
		if last[k] {
			res = append(res, k)
		}
	}
	return res
}
