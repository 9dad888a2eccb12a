package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum_KnownValue(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	got, err := Checksum(strings.NewReader("abc"))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestChecksum_EmptyInput(t *testing.T) {
	// sha256("")
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	got, err := Checksum(strings.NewReader(""))

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileChecksum_MatchesReaderChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("survey data"), 0o600))

	fromFile, err := FileChecksum(path)
	require.NoError(t, err)

	fromReader, err := Checksum(strings.NewReader("survey data"))
	require.NoError(t, err)

	assert.Equal(t, fromReader, fromFile)
}

func TestFileChecksum_MissingFile(t *testing.T) {
	_, err := FileChecksum(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestHashString_Deterministic(t *testing.T) {
	first := HashString("payload", "key")
	second := HashString("payload", "key")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "hex-encoded HMAC-SHA256 is 64 characters")
}

func TestHashString_KeySensitive(t *testing.T) {
	assert.NotEqual(t, HashString("payload", "key-a"), HashString("payload", "key-b"))
}
