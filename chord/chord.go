package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/chordplay/model"
	"github.com/pkg/errors"
)

var (
	ErrInvalidChordSymbol = errors.New("invalid chord symbol")
	ErrInvalidTonic       = errors.New("invalid tonic")
	ErrInvalidMode        = errors.New("invalid mode")
)

type Quality int

const (
	MajorTriad Quality = iota
	MinorTriad
	DiminishedTriad
)

func (q Quality) String() string {
	switch q {
	case MajorTriad:
		return "major"
	case MinorTriad:
		return "minor"
	default:
		return "diminished"
	}
}

func (q Quality) Intervals() [3]uint8 {
	switch q {
	case MajorTriad:
		return [3]uint8{0, 4, 7}
	case MinorTriad:
		return [3]uint8{0, 3, 7}
	default:
		return [3]uint8{0, 3, 6}
	}
}

// AccidentalPolicy decides what a trailing '#' or 'b' does to a triad.
type AccidentalPolicy int

const (
	// AccidentalIgnore voices I# exactly like I.
	AccidentalIgnore AccidentalPolicy = iota
	// AccidentalShift moves the root a semitone up ('#') or down ('b').
	AccidentalShift
)

func ParseAccidentalPolicy(s string) (AccidentalPolicy, error) {
	switch strings.ToLower(s) {
	case "", "ignore":
		return AccidentalIgnore, nil
	case "shift":
		return AccidentalShift, nil
	}
	return AccidentalIgnore, errors.Errorf("unknown accidental policy %q", s)
}

// tonics sit in the octave starting at middle C.
var tonics = map[string]uint8{
	"C": 60, "C#": 61, "Db": 61,
	"D": 62, "D#": 63, "Eb": 63,
	"E": 64,
	"F": 65, "F#": 66, "Gb": 66,
	"G": 67, "G#": 68, "Ab": 68,
	"A": 69, "A#": 70, "Bb": 70,
	"B": 71,
}

var numerals = []string{"I", "II", "III", "IV", "V", "VI", "VII"}

var scaleOffsets = map[model.Mode][7]uint8{
	model.Major: {0, 2, 4, 5, 7, 9, 11},
	model.Minor: {0, 2, 3, 5, 7, 8, 10},
}

var qualities = map[model.Mode]map[string]Quality{
	model.Major: {
		"I": MajorTriad, "IV": MajorTriad, "V": MajorTriad,
		"ii": MinorTriad, "iii": MinorTriad, "vi": MinorTriad,
		"vii": DiminishedTriad,
	},
	model.Minor: {
		"III": MajorTriad, "VI": MajorTriad, "VII": MajorTriad,
		"i": MinorTriad, "iv": MinorTriad, "v": MinorTriad,
		"ii": DiminishedTriad,
	},
}

// Symbol is a parsed scale-degree chord symbol such as "vi" or "VII#".
type Symbol struct {
	Base       string
	Degree     int // 0-based
	Upper      bool
	Accidental string
}

func (s Symbol) String() string {
	return s.Base + s.Accidental
}

// ParseSymbol splits a chord symbol into its numeral and trailing accidental.
// The numeral must be entirely upper or entirely lower case.
func ParseSymbol(symbol string) (Symbol, error) {
	base := strings.TrimRight(symbol, "#b")
	accidental := symbol[len(base):]
	if len(accidental) > 1 {
		return Symbol{}, errors.Wrapf(ErrInvalidChordSymbol, "%q has more than one accidental", symbol)
	}

	upper := strings.ToUpper(base)
	isUpper := base == upper
	if !isUpper && base != strings.ToLower(base) {
		return Symbol{}, errors.Wrapf(ErrInvalidChordSymbol, "%q mixes numeral case", symbol)
	}
	for i, n := range numerals {
		if n == upper {
			return Symbol{Base: base, Degree: i, Upper: isUpper, Accidental: accidental}, nil
		}
	}
	return Symbol{}, errors.Wrapf(ErrInvalidChordSymbol, "%q", symbol)
}

func ParseMode(s string) (model.Mode, error) {
	switch s {
	case "major", "Major", "M", "maj":
		return model.Major, nil
	case "minor", "Minor", "m", "min":
		return model.Minor, nil
	}
	return "", errors.Wrapf(ErrInvalidMode, "%q", s)
}

func TonicPitch(tonic string) (uint8, error) {
	p, ok := tonics[tonic]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidTonic, "%q", tonic)
	}
	return p, nil
}

// QualityOf looks the symbol's exact case up in the mode's table. Symbols
// outside the table (borrowed chords like VI in major) take their quality
// from case alone: upper is major, lower is minor.
func QualityOf(s Symbol, mode model.Mode) Quality {
	if q, ok := qualities[mode][s.Base]; ok {
		return q
	}
	if s.Upper {
		return MajorTriad
	}
	return MinorTriad
}

type Resolver struct {
	Accidentals AccidentalPolicy
}

var defaultResolver Resolver

// ResolveTriad maps a scale-degree symbol in a key to three ascending MIDI
// notes, ignoring accidentals.
func ResolveTriad(symbol string, tonic string, mode model.Mode) ([3]uint8, error) {
	return defaultResolver.ResolveTriad(symbol, tonic, mode)
}

func (r Resolver) ResolveTriad(symbol string, tonic string, mode model.Mode) ([3]uint8, error) {
	var res [3]uint8

	offsets, ok := scaleOffsets[mode]
	if !ok {
		return res, errors.Wrapf(ErrInvalidMode, "%q", mode)
	}
	s, err := ParseSymbol(symbol)
	if err != nil {
		return res, err
	}
	base, err := TonicPitch(tonic)
	if err != nil {
		return res, err
	}

	root := base + offsets[s.Degree]
	if r.Accidentals == AccidentalShift {
		switch s.Accidental {
		case "#":
			root++
		case "b":
			root--
		}
	}

	for i, interval := range QualityOf(s, mode).Intervals() {
		res[i] = root + interval
	}
	return res, nil
}

// ResolveKey is ResolveTriad for a model.Key.
func (r Resolver) ResolveKey(symbol string, key model.Key) ([3]uint8, error) {
	return r.ResolveTriad(symbol, key.Tonic, key.Mode)
}

func CreateChordKey(notes []uint8) string {
	sorted := append([]uint8(nil), notes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	var res string
	for i, note := range sorted {
		res += fmt.Sprintf("%v", note)
		if i < len(sorted)-1 {
			res += "-"
		}
	}
	return res
}
