package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"rock": 1, "basic": 2, "disco": 3}
	assert.Equal(t, []string{"basic", "disco", "rock"}, SortedKeys(m))
	assert.Len(t, GetKeys(m), 3)
}

func TestMinAndClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(3, Min(3, 5))
	assert.Equal(time.Millisecond, Min(50*time.Millisecond, time.Millisecond))
	assert.Equal(uint8(127), Clamp[uint8](200, 0, 127))
	assert.Equal(1, Clamp(-4, 1, 10))
	assert.Equal(5, Clamp(5, 1, 10))
}

func TestSum(t *testing.T) {
	assert.Equal(t, uint64(6), Sum([]uint8{1, 2, 3}))
}
