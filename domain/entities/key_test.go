package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOrdinals(t *testing.T) {
	// Guest modules hard-code these ids.
	assert.Equal(t, Key(0), KeyA)
	assert.Equal(t, Key(25), KeyM)
	assert.Equal(t, Key(26), KeyUp)
	assert.Equal(t, Key(30), KeySpace)
	assert.Equal(t, Key(32), KeyEscape)
	assert.Len(t, AllKeys(), 33)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "Space", KeySpace.String())
	assert.Equal(t, "Q", KeyQ.String())
	assert.Equal(t, "Key(99)", Key(99).String())
	assert.False(t, Key(-1).Valid())
}

func TestParseKey(t *testing.T) {
	k, err := ParseKey("escape")
	require.NoError(t, err)
	assert.Equal(t, KeyEscape, k)

	_, err = ParseKey("F13")
	assert.Error(t, err)
}
