package drum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voices(hits []Hit) []Voice {
	var res []Voice
	for _, h := range hits {
		res = append(res, h.Voice)
	}
	return res
}

func TestBasicPatternFirstBar(t *testing.T) {
	p, err := Lookup("basic")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]Voice{Kick, HiHat}, voices(VoicesAt(p, 0)))
	assert.Equal([]Voice{HiHat}, voices(VoicesAt(p, 1)))
	assert.Equal([]Voice{Snare, HiHat}, voices(VoicesAt(p, 2)))
	assert.Equal([]Voice{Kick, HiHat}, voices(VoicesAt(p, 4)))
}

func TestCycleRepeatsEveryEightTicks(t *testing.T) {
	p, err := Lookup("disco")
	require.NoError(t, err)

	for tick := 0; tick < Steps; tick++ {
		assert.Equal(t, VoicesAt(p, tick), VoicesAt(p, tick+Steps))
		assert.Equal(t, VoicesAt(p, tick), VoicesAt(p, tick+5*Steps))
	}
}

func TestHitsCarryPercussionNotes(t *testing.T) {
	p := Pattern{Voices: map[Voice][Steps]bool{Ride: Cycle("x")}}
	hits := VoicesAt(p, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, Hit{Voice: Ride, Note: 51, Velocity: 85}, hits[0])
	assert.Empty(t, VoicesAt(p, 1))
	assert.Empty(t, VoicesAt(p, -1))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("polka")
	assert.True(t, errors.Is(err, ErrUnknownPattern))
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	assert.Contains(t, names, DefaultPattern)
	assert.IsIncreasing(t, names)
}

func TestCycle(t *testing.T) {
	assert.Equal(t, [Steps]bool{true, false, false, false, true, false, false, false}, Cycle("x...x..."))
	assert.Equal(t, [Steps]bool{true, true}, Cycle("xx"))
}
