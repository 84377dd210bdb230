package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepeatModeCycle(t *testing.T) {
	assert.Equal(t, RepeatAll, RepeatNone.Next())
	assert.Equal(t, RepeatOne, RepeatAll.Next())
	assert.Equal(t, RepeatNone, RepeatOne.Next())
	// Unknown values re-enter the cycle at none.
	assert.Equal(t, RepeatNone, RepeatMode("sideways").Next())
}

func TestRepeatModeValid(t *testing.T) {
	assert.True(t, RepeatNone.Valid())
	assert.True(t, RepeatAll.Valid())
	assert.True(t, RepeatOne.Valid())
	assert.False(t, RepeatMode("").Valid())
	assert.False(t, RepeatMode("sideways").Valid())
}
