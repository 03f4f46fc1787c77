package midi

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, errors.Errorf("parsing midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

func WriteMidiFile(filepath string, s *smf.SMF) error {
	f, err := os.Create(filepath)
	if err != nil {
		return errors.Wrap(err, "creating midi file")
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrap(err, "writing midi file")
	}
	return errors.Wrap(f.Close(), "closing midi file")
}

func Write(w io.Writer, s *smf.SMF) error {
	_, err := s.WriteTo(w)
	return errors.Wrap(err, "writing midi")
}

// NoteEvent is a note on or off at an absolute tick.
type NoteEvent struct {
	Tick     uint64
	On       bool
	Channel  uint8
	Key      uint8
	Velocity uint8
}

// NoteEvents flattens every track's note messages into absolute time.
func NoteEvents(s *smf.SMF) []NoteEvent {
	var res []NoteEvent
	for _, track := range s.Tracks {
		var absTicks uint64
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			msg := midi.Message(evt.Message)
			var ch, key, vel uint8
			switch {
			case msg.GetNoteOn(&ch, &key, &vel):
				res = append(res, NoteEvent{Tick: absTicks, On: vel > 0, Channel: ch, Key: key, Velocity: vel})
			case msg.GetNoteOff(&ch, &key, &vel):
				res = append(res, NoteEvent{Tick: absTicks, Channel: ch, Key: key})
			}
		}
	}
	return res
}
