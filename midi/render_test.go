package midi

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/drum"
	"github.com/jsphweid/chordplay/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func cMajor(chords ...model.ChordEvent) Song {
	return Song{
		Progression: chords,
		Tempo:       120,
		Key:         model.Key{Tonic: "C", Mode: model.Major},
	}
}

func roundTrip(t *testing.T, s *smf.SMF) *smf.SMF {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))
	res, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return res
}

func TestRenderChords(t *testing.T) {
	s, err := Render(cMajor(
		model.ChordEvent{Symbol: "I", Duration: 2},
		model.ChordEvent{Symbol: "V", Duration: 1},
	), DefaultRenderOptions())
	require.NoError(t, err)

	events := NoteEvents(roundTrip(t, s))
	assert.Equal(t, []NoteEvent{
		{Tick: 0, On: true, Key: 60, Velocity: 100},
		{Tick: 0, On: true, Key: 64, Velocity: 100},
		{Tick: 0, On: true, Key: 67, Velocity: 100},
		{Tick: 960, Key: 60},
		{Tick: 960, Key: 64},
		{Tick: 960, Key: 67},
		{Tick: 960, On: true, Key: 67, Velocity: 100},
		{Tick: 960, On: true, Key: 71, Velocity: 100},
		{Tick: 960, On: true, Key: 74, Velocity: 100},
		{Tick: 1440, Key: 67},
		{Tick: 1440, Key: 71},
		{Tick: 1440, Key: 74},
	}, events)
}

func TestRenderDrums(t *testing.T) {
	song := cMajor(model.ChordEvent{Symbol: "I", Duration: 8})
	song.Drums = &model.DrumSettings{Enabled: true, Pattern: "halftime"}
	s, err := Render(song, DefaultRenderOptions())
	require.NoError(t, err)

	var kicks, snares, rides []uint64
	for _, e := range NoteEvents(s) {
		if !e.On || e.Channel != drum.Channel {
			continue
		}
		switch e.Key {
		case 36:
			kicks = append(kicks, e.Tick)
		case 38:
			snares = append(snares, e.Tick)
		case 51:
			rides = append(rides, e.Tick)
		}
	}
	assert := assert.New(t)
	assert.Equal([]uint64{0}, kicks)
	assert.Equal([]uint64{4 * 480}, snares)
	assert.Equal([]uint64{0, 960, 1920, 2880}, rides)
}

func TestRenderEveryNoteIsReleased(t *testing.T) {
	song := cMajor(
		model.ChordEvent{Symbol: "I", Duration: 3},
		model.ChordEvent{Symbol: "I", Duration: 3},
		model.ChordEvent{Symbol: "vi", Duration: 5},
	)
	song.Drums = &model.DrumSettings{Enabled: true}
	s, err := Render(song, DefaultRenderOptions())
	require.NoError(t, err)

	sounding := map[[2]uint8]bool{}
	for _, e := range NoteEvents(s) {
		k := [2]uint8{e.Channel, e.Key}
		if e.On {
			assert.False(t, sounding[k], "note %v struck twice", k)
			sounding[k] = true
		} else {
			delete(sounding, k)
		}
	}
	assert.Empty(t, sounding)
}

func TestRenderRejects(t *testing.T) {
	opts := DefaultRenderOptions()

	_, err := Render(cMajor(), opts)
	assert.True(t, errors.Is(err, ErrNothingToRender))

	song := cMajor(model.ChordEvent{Symbol: "I", Duration: 2})
	song.Tempo = 0
	_, err = Render(song, opts)
	assert.True(t, errors.Is(err, ErrNothingToRender))

	_, err = Render(cMajor(model.ChordEvent{Symbol: "VIII", Duration: 2}), opts)
	assert.True(t, errors.Is(err, chord.ErrInvalidChordSymbol))

	song = cMajor(model.ChordEvent{Symbol: "I", Duration: 2})
	song.Drums = &model.DrumSettings{Enabled: true, Pattern: "polka"}
	_, err = Render(song, opts)
	assert.True(t, errors.Is(err, drum.ErrUnknownPattern))
}

func TestWriteAndReadFile(t *testing.T) {
	s, err := Render(cMajor(model.ChordEvent{Symbol: "IV", Duration: 2}), DefaultRenderOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "iv.mid")
	require.NoError(t, WriteMidiFile(path, s))

	read, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, NoteEvents(read), 6)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
