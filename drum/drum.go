package drum

import (
	"sync"

	"github.com/jsphweid/chordplay/util"
	"github.com/pkg/errors"
)

// Steps is the length of every voice cycle, one slot per eighth note.
const Steps = 8

// Channel is the General MIDI percussion channel (10, zero-based).
const Channel uint8 = 9

var ErrUnknownPattern = errors.New("unknown drum pattern")

type Voice string

const (
	Kick       Voice = "kick"
	Snare      Voice = "snare"
	HiHat      Voice = "hi-hat"
	OpenHiHat  Voice = "open-hi-hat"
	Ride       Voice = "ride"
	Clap       Voice = "clap"
	Tambourine Voice = "tambourine"
)

// voiceOrder fixes the order voices are emitted in on a shared slot.
var voiceOrder = []Voice{Kick, Snare, Clap, HiHat, OpenHiHat, Ride, Tambourine}

// Hit is one percussion pulse.
type Hit struct {
	Voice    Voice
	Note     uint8
	Velocity uint8
}

type Sound struct {
	Note     uint8
	Velocity uint8
}

// GM percussion map
var Sounds = map[Voice]Sound{
	Kick:       {Note: 36, Velocity: 110},
	Snare:      {Note: 38, Velocity: 100},
	Clap:       {Note: 39, Velocity: 90},
	HiHat:      {Note: 42, Velocity: 80},
	OpenHiHat:  {Note: 46, Velocity: 80},
	Ride:       {Note: 51, Velocity: 85},
	Tambourine: {Note: 54, Velocity: 70},
}

// Pattern maps each voice to its 8-slot hit/rest cycle.
type Pattern struct {
	Name   string
	Voices map[Voice][Steps]bool
}

// VoicesAt returns the hits that pulse at eighth-note position tick,
// counted from the start of playback.
func VoicesAt(p Pattern, tick int) []Hit {
	if tick < 0 {
		return nil
	}
	slot := tick % Steps

	var hits []Hit
	for _, v := range voiceOrder {
		cycle, ok := p.Voices[v]
		if !ok || !cycle[slot] {
			continue
		}
		s := Sounds[v]
		hits = append(hits, Hit{Voice: v, Note: s.Note, Velocity: s.Velocity})
	}
	return hits
}

// Cycle builds an 8-slot cycle from a string such as "x...x...".
func Cycle(s string) [Steps]bool {
	var c [Steps]bool
	for i := 0; i < Steps && i < len(s); i++ {
		c[i] = s[i] == 'x'
	}
	return c
}

var (
	patterns   = make(map[string]Pattern)
	patternsMu sync.RWMutex
)

func Register(p Pattern) {
	patternsMu.Lock()
	patterns[p.Name] = p
	patternsMu.Unlock()
}

func Lookup(name string) (Pattern, error) {
	patternsMu.RLock()
	defer patternsMu.RUnlock()
	p, ok := patterns[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "%q", name)
	}
	return p, nil
}

// Names returns the registered pattern names, sorted.
func Names() []string {
	patternsMu.RLock()
	defer patternsMu.RUnlock()
	return util.SortedKeys(patterns)
}

const DefaultPattern = "basic"

func init() {
	Register(Pattern{
		Name: "basic",
		Voices: map[Voice][Steps]bool{
			Kick:  Cycle("x...x..."),
			Snare: Cycle("..x...x."),
			HiHat: Cycle("xxxxxxxx"),
		},
	})
	Register(Pattern{
		Name: "rock",
		Voices: map[Voice][Steps]bool{
			Kick:  Cycle("x...xx.."),
			Snare: Cycle("..x...x."),
			HiHat: Cycle("xxxxxxxx"),
		},
	})
	Register(Pattern{
		Name: "disco",
		Voices: map[Voice][Steps]bool{
			Kick:      Cycle("x.x.x.x."),
			Clap:      Cycle("..x...x."),
			HiHat:     Cycle("x.x.x.x."),
			OpenHiHat: Cycle(".x.x.x.x"),
		},
	})
	Register(Pattern{
		Name: "halftime",
		Voices: map[Voice][Steps]bool{
			Kick:  Cycle("x......."),
			Snare: Cycle("....x..."),
			Ride:  Cycle("x.x.x.x."),
		},
	})
	Register(Pattern{
		Name: "shuffle",
		Voices: map[Voice][Steps]bool{
			Kick:       Cycle("x..x...."),
			Snare:      Cycle("..x...x."),
			Ride:       Cycle("x.xxx.xx"),
			Tambourine: Cycle("..x...x."),
		},
	})
}
