package synth

import (
	"runtime"
	"strconv"
	"time"
)

type Config struct {
	Binary    string
	SoundBank string

	// Render selects the hosted deployment: pulseaudio over a unix socket.
	Render      bool
	PulseSocket string

	// GOOS picks the local audio driver; empty means runtime.GOOS.
	GOOS string

	Gain       float64
	SampleRate int

	Channel uint8
	Program uint8

	Grace time.Duration
}

func DefaultConfig() Config {
	return Config{
		Binary:      "fluidsynth",
		SoundBank:   "soundfonts/piano.sf2",
		PulseSocket: "/tmp/pulseaudio.socket",
		Gain:        2,
		SampleRate:  44100,
		Grace:       time.Second,
	}
}

// audioDrivers maps an OS to the fluidsynth driver used for local runs.
var audioDrivers = map[string]string{
	"darwin":  "coreaudio",
	"linux":   "pulseaudio",
	"windows": "dsound",
}

func (c Config) AudioDriver() string {
	if c.Render {
		return "pulseaudio"
	}
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	if d, ok := audioDrivers[goos]; ok {
		return d
	}
	return "pulseaudio"
}

func (c Config) Args() []string {
	gain := strconv.FormatFloat(c.Gain, 'f', -1, 64)
	rate := strconv.Itoa(c.SampleRate)

	if c.Render {
		return []string{
			"-a", c.AudioDriver(),
			"-o", "audio.pulseaudio.server=unix:" + c.PulseSocket,
			"-g", gain,
			"-r", rate,
			"-c", "2",
			"-z", "512",
			c.SoundBank,
		}
	}
	return []string{
		"-a", c.AudioDriver(),
		"-g", gain,
		"-r", rate,
		c.SoundBank,
	}
}

// Env is appended to the parent environment when launching.
func (c Config) Env() []string {
	if c.Render {
		return []string{"PULSE_SERVER=unix:" + c.PulseSocket}
	}
	return nil
}
