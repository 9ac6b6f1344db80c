package host

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scripts.wasm")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x61, 0x73, 0x6D}, 0o600))

	data, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x61, 0x73, 0x6D}, data)
}

func TestReadImage_Missing(t *testing.T) {
	_, err := ReadImage(filepath.Join(t.TempDir(), "nope.wasm"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadImage_Directory(t *testing.T) {
	_, err := ReadImage(t.TempDir())
	assert.ErrorContains(t, err, "not a regular file")
}

func TestReclaim(t *testing.T) {
	token := &sessionToken{}
	ref := weakRef(token)
	token = nil //nolint:ineffassign,wastedassign // release the only strong reference

	cycles, ok := reclaim(ref, DefaultReclaimAttempts)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, cycles, 1)
}

func TestReclaim_StillReferenced(t *testing.T) {
	token := &sessionToken{}
	ref := weakRef(token)

	cycles, ok := reclaim(ref, 2)
	assert.False(t, ok)
	assert.Equal(t, 2, cycles)
	assert.NotNil(t, token)
}
