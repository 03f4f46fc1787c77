package synth

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvalidMessage = errors.New("invalid synthesizer message")

const QuitCommand = "quit"

func checkRange(name string, v uint8, max uint8) error {
	if v > max {
		return errors.Wrapf(ErrInvalidMessage, "%v %v out of range 0-%v", name, v, max)
	}
	return nil
}

func NoteOnCommand(channel, note, velocity uint8) (string, error) {
	if err := checkRange("channel", channel, 15); err != nil {
		return "", err
	}
	if err := checkRange("note", note, 127); err != nil {
		return "", err
	}
	if err := checkRange("velocity", velocity, 127); err != nil {
		return "", err
	}
	return fmt.Sprintf("noteon %d %d %d", channel, note, velocity), nil
}

func NoteOffCommand(channel, note uint8) (string, error) {
	if err := checkRange("channel", channel, 15); err != nil {
		return "", err
	}
	if err := checkRange("note", note, 127); err != nil {
		return "", err
	}
	return fmt.Sprintf("noteoff %d %d", channel, note), nil
}

func ProgramCommand(channel, program uint8) (string, error) {
	if err := checkRange("channel", channel, 15); err != nil {
		return "", err
	}
	if err := checkRange("program", program, 127); err != nil {
		return "", err
	}
	return fmt.Sprintf("prog %d %d", channel, program), nil
}
