package chord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsphweid/chordplay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twelveTonics = []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

func intervalsOf(notes [3]uint8) [3]uint8 {
	return [3]uint8{0, notes[1] - notes[0], notes[2] - notes[0]}
}

func TestMajorModeDegreesAcrossAllTonics(t *testing.T) {
	expected := map[string]Quality{
		"I": MajorTriad, "ii": MinorTriad, "iii": MinorTriad, "IV": MajorTriad,
		"V": MajorTriad, "vi": MinorTriad, "vii": DiminishedTriad,
	}

	for _, tonic := range twelveTonics {
		for symbol, quality := range expected {
			name := fmt.Sprintf("%v in %v major", symbol, tonic)
			t.Run(name, func(t *testing.T) {
				notes, err := ResolveTriad(symbol, tonic, model.Major)
				require.NoError(t, err)

				assert := assert.New(t)
				assert.LessOrEqual(notes[0], notes[1])
				assert.LessOrEqual(notes[1], notes[2])
				assert.Equal(quality.Intervals(), intervalsOf(notes))
			})
		}
	}
}

func TestMinorModeQualities(t *testing.T) {
	cases := map[string][3]uint8{
		"i":   {57, 60, 64}, // A minor
		"ii":  {59, 62, 65},
		"III": {60, 64, 67},
		"iv":  {62, 65, 69},
		"v":   {64, 67, 71},
		"VI":  {65, 69, 72},
		"VII": {67, 71, 74},
	}
	for symbol, want := range cases {
		got, err := ResolveTriad(symbol, "A", model.Minor)
		require.NoError(t, err)
		// tonic A sits at 69, so shift the table up an octave
		for i := range want {
			want[i] += 12
		}
		assert.Equal(t, want, got, symbol)
	}
}

func TestCMajorTriads(t *testing.T) {
	assert := assert.New(t)

	notes, err := ResolveTriad("I", "C", model.Major)
	assert.NoError(err)
	assert.Equal([3]uint8{60, 64, 67}, notes)

	notes, err = ResolveTriad("vi", "C", model.Major)
	assert.NoError(err)
	assert.Equal([3]uint8{69, 72, 76}, notes)

	notes, err = ResolveTriad("vii", "C", model.Major)
	assert.NoError(err)
	assert.Equal([3]uint8{71, 74, 77}, notes)
}

func TestInvalidSymbols(t *testing.T) {
	for _, symbol := range []string{"VIII", "", "X", "#", "b", "Iv", "I##", "viib#"} {
		t.Run(fmt.Sprintf("symbol %q", symbol), func(t *testing.T) {
			_, err := ResolveTriad(symbol, "C", model.Major)
			assert.True(t, errors.Is(err, ErrInvalidChordSymbol), "got %v", err)
		})
	}
}

func TestInvalidTonic(t *testing.T) {
	_, err := ResolveTriad("I", "H", model.Major)
	assert.True(t, errors.Is(err, ErrInvalidTonic))

	_, err = ResolveTriad("I", "c", model.Major)
	assert.True(t, errors.Is(err, ErrInvalidTonic))
}

func TestInvalidMode(t *testing.T) {
	_, err := ResolveTriad("I", "C", model.Mode("dorian"))
	assert.True(t, errors.Is(err, ErrInvalidMode))
}

func TestAccidentalsIgnoredByDefault(t *testing.T) {
	plain, err := ResolveTriad("VI", "C", model.Major)
	require.NoError(t, err)
	sharp, err := ResolveTriad("VI#", "C", model.Major)
	require.NoError(t, err)
	flat, err := ResolveTriad("VIb", "C", model.Major)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(plain, sharp)
	assert.Equal(plain, flat)
}

func TestAccidentalShiftPolicy(t *testing.T) {
	r := Resolver{Accidentals: AccidentalShift}

	flat, err := r.ResolveTriad("VIIb", "C", model.Major)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{70, 74, 77}, flat)

	sharp, err := r.ResolveTriad("iv#", "C", model.Major)
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{66, 69, 73}, sharp)
}

func TestBorrowedChordTakesQualityFromCase(t *testing.T) {
	assert := assert.New(t)

	s, err := ParseSymbol("VI")
	assert.NoError(err)
	assert.Equal(MajorTriad, QualityOf(s, model.Major))

	s, err = ParseSymbol("vii")
	assert.NoError(err)
	assert.Equal(MinorTriad, QualityOf(s, model.Minor))

	s, err = ParseSymbol("ii")
	assert.NoError(err)
	assert.Equal(DiminishedTriad, QualityOf(s, model.Minor))
}

func TestParseMode(t *testing.T) {
	assert := assert.New(t)
	for _, in := range []string{"major", "M"} {
		m, err := ParseMode(in)
		assert.NoError(err)
		assert.Equal(model.Major, m)
	}
	for _, in := range []string{"minor", "m"} {
		m, err := ParseMode(in)
		assert.NoError(err)
		assert.Equal(model.Minor, m)
	}
	_, err := ParseMode("lydian")
	assert.True(errors.Is(err, ErrInvalidMode))
}

func TestCreateChordKey(t *testing.T) {
	notes := []uint8{67, 60, 64}
	assert := assert.New(t)
	assert.Equal("60-64-67", CreateChordKey(notes))
	assert.Equal([]uint8{67, 60, 64}, notes)
}
