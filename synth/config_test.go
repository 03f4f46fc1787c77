package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalArgsPerOS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SoundBank = "piano.sf2"

	cfg.GOOS = "darwin"
	assert.Equal(t, []string{"-a", "coreaudio", "-g", "2", "-r", "44100", "piano.sf2"}, cfg.Args())
	assert.Empty(t, cfg.Env())

	cfg.GOOS = "linux"
	assert.Equal(t, "pulseaudio", cfg.AudioDriver())

	cfg.GOOS = "plan9"
	assert.Equal(t, "pulseaudio", cfg.AudioDriver())
}

func TestRenderArgs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SoundBank = "piano.sf2"
	cfg.Render = true
	cfg.GOOS = "darwin"

	assert := assert.New(t)
	assert.Equal([]string{
		"-a", "pulseaudio",
		"-o", "audio.pulseaudio.server=unix:/tmp/pulseaudio.socket",
		"-g", "2",
		"-r", "44100",
		"-c", "2",
		"-z", "512",
		"piano.sf2",
	}, cfg.Args())
	assert.Equal([]string{"PULSE_SERVER=unix:/tmp/pulseaudio.socket"}, cfg.Env())
}

func TestProtocolLines(t *testing.T) {
	assert := assert.New(t)

	line, err := NoteOnCommand(0, 60, 100)
	assert.NoError(err)
	assert.Equal("noteon 0 60 100", line)

	line, err = NoteOffCommand(9, 36)
	assert.NoError(err)
	assert.Equal("noteoff 9 36", line)

	line, err = ProgramCommand(0, 0)
	assert.NoError(err)
	assert.Equal("prog 0 0", line)

	_, err = NoteOnCommand(0, 60, 128)
	assert.ErrorIs(err, ErrInvalidMessage)
}
