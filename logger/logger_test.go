package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "console.log")

	l, err := Init(path, "debug")
	require.NoError(t, err)
	require.NotNil(t, l)

	Info("hello")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestInitBadLevelFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	_, err := Init(path, "loud")
	require.NoError(t, err)
}
