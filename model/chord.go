package model

type Notes = []uint8

// ChordEvent is one chord of a progression. Duration is counted in eighth
// notes and is always at least 1.
type ChordEvent struct {
	Symbol   string `json:"chord"`
	Duration int    `json:"duration"`
}

// Progression keeps chords in musical order.
type Progression = []ChordEvent

type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

type Key struct {
	Tonic string `json:"tonic"`
	Mode  Mode   `json:"mode"`
}

type DrumSettings struct {
	Enabled bool   `json:"enabled"`
	Pattern string `json:"pattern"`
}

// TotalEighths is the length of a progression on the eighth-note grid.
func TotalEighths(p Progression) int {
	var total int
	for _, c := range p {
		total += c.Duration
	}
	return total
}
