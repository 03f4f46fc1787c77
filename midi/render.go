package midi

import (
	"sort"

	"github.com/jsphweid/chordplay/chord"
	"github.com/jsphweid/chordplay/drum"
	"github.com/jsphweid/chordplay/model"
	"github.com/jsphweid/chordplay/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution is in ticks per quarter note.
const Resolution = 960

const ticksPerEighth = Resolution / 2

var ErrNothingToRender = errors.New("nothing to render")

// Song is a progression with everything needed to voice it.
type Song struct {
	Progression model.Progression
	Tempo       int
	Key         model.Key
	Drums       *model.DrumSettings
}

type RenderOptions struct {
	Resolver chord.Resolver
	Channel  uint8
	Program  uint8
	Velocity uint8
	// DrumTicks is how long a drum hit lasts; capped at one eighth note.
	DrumTicks uint32
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Velocity: 100, DrumTicks: ticksPerEighth / 4}
}

type timedMessage struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Render writes song as a single track file, the same notes the player would
// send to the synthesizer.
func Render(song Song, opts RenderOptions) (*smf.SMF, error) {
	if song.Tempo <= 0 {
		return nil, errors.Wrapf(ErrNothingToRender, "tempo %d", song.Tempo)
	}
	if len(song.Progression) == 0 {
		return nil, errors.Wrap(ErrNothingToRender, "empty progression")
	}

	var pattern *drum.Pattern
	if song.Drums != nil && song.Drums.Enabled {
		name := song.Drums.Pattern
		if name == "" {
			name = drum.DefaultPattern
		}
		p, err := drum.Lookup(name)
		if err != nil {
			return nil, err
		}
		pattern = &p
	}

	velocity := util.Clamp(opts.Velocity, 1, 127)
	drumTicks := util.Clamp(opts.DrumTicks, 1, ticksPerEighth)

	var msgs []timedMessage
	tick := 0
	for i, c := range song.Progression {
		if c.Duration < 1 {
			return nil, errors.Wrapf(ErrNothingToRender, "chord %d has duration %d", i, c.Duration)
		}
		notes, err := opts.Resolver.ResolveKey(c.Symbol, song.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "chord %d", i)
		}

		start := uint32(tick * ticksPerEighth)
		end := uint32((tick + c.Duration) * ticksPerEighth)
		for _, n := range notes {
			msgs = append(msgs,
				timedMessage{tick: start, msg: midi.NoteOn(opts.Channel, n, velocity)},
				timedMessage{tick: end, off: true, msg: midi.NoteOff(opts.Channel, n)})
		}

		if pattern != nil {
			for slot := tick; slot < tick+c.Duration; slot++ {
				at := uint32(slot * ticksPerEighth)
				for _, h := range drum.VoicesAt(*pattern, slot) {
					msgs = append(msgs,
						timedMessage{tick: at, msg: midi.NoteOn(drum.Channel, h.Note, h.Velocity)},
						timedMessage{tick: at + drumTicks, off: true, msg: midi.NoteOff(drum.Channel, h.Note)})
				}
			}
		}
		tick += c.Duration
	}

	// offs go first so a repeated note is released before it is struck again
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTempo(float64(song.Tempo)))
	track.Add(0, midi.ProgramChange(opts.Channel, opts.Program))
	var last uint32
	for _, m := range msgs {
		track.Add(m.tick-last, m.msg)
		last = m.tick
	}
	track.Close(0)

	var res smf.SMF
	res.TimeFormat = smf.MetricTicks(Resolution)
	res.Tracks = append(res.Tracks, track)
	return &res, nil
}
