package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLastUpdateTouchAndGet(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 4, 2, 16, 7, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "state", "last_update.json")
	lu := NewLastUpdate(path, ClockFunc(func() time.Time { return fixed }))

	_, ok, err := lu.Get()
	require.NoError(t, err)
	require.False(t, ok)

	at, err := lu.Touch()
	require.NoError(t, err)
	require.True(t, fixed.Equal(at))

	got, ok, err := lu.Get()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, fixed.Equal(got))
	require.Equal(t, "16:07 02 April 2025", FormatLastUpdate(got, ok))

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestLastUpdateCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "last_update.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, _, err := NewLastUpdate(path, nil).Get()
	require.Error(t, err)
	require.Equal(t, "unknown", FormatLastUpdate(time.Time{}, false))
}
