package constants

import (
	"os"
	"strings"
)

func getenv(name, fallback string) string {
	v := os.Getenv(name)
	if v != "" {
		return v
	}
	return fallback
}

func isTrue(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "true" || v == "1" || v == "yes"
}

func GetSoundBankPath() string {
	return getenv("SOUNDBANK_PATH", "soundfonts/piano.sf2")
}

func GetSynthBinary() string {
	return getenv("FLUIDSYNTH_BIN", "fluidsynth")
}

// IsRender reports whether we are deployed on Render, where audio goes to a
// pulseaudio server over a unix socket.
func IsRender() bool {
	return isTrue("RENDER")
}

func GetPulseSocket() string {
	return getenv("PULSE_SOCKET", "/tmp/pulseaudio.socket")
}

func GetPort() string {
	return getenv("PORT", "8000")
}

func GetCorsOrigins() []string {
	return strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ",")
}

// GetHistoryEndpoint is empty unless sessions should be stored in DynamoDB.
func GetHistoryEndpoint() string {
	return os.Getenv("HISTORY_ENDPOINT")
}

func GetHistoryTable() string {
	return getenv("HISTORY_TABLE", "chordplay-sessions")
}

func GetHistoryRegion() string {
	return getenv("HISTORY_REGION", "localhost")
}

func GetAccidentalPolicy() string {
	return getenv("ACCIDENTAL_POLICY", "ignore")
}

func IsDebug() bool {
	return isTrue("LOG_DEBUG")
}

const DefaultTempo = 120

// eighth notes
const DefaultChordDuration = 2
