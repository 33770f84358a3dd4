package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTrimsAndSkipsEmptyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.txt")
	require.NoError(t, os.WriteFile(path, []byte("alice\n  bob \r\n\n\t\ncarol"), 0o600))

	words, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, words)
}

func TestLoadKeepsDuplicatesInOrder(t *testing.T) {
	words, err := Read(strings.NewReader("root\nadmin\nroot\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "admin", "root"}, words)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	words, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.txt")

	_, err := Load(path)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, path, ioErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
