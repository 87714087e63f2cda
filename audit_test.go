package vending

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	l := NewFileLogger(dir)
	at := time.Date(2024, 5, 1, 10, 20, 30, 0, time.Local)
	l.now = func() time.Time { return at }

	l.Log("Data has been received.")
	l.Log("Device", "is", "closed")

	path := filepath.Join(dir, "fmt-vending-2024-05-01.log")
	require.Equal(t, path, l.Path(at))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"2024-05-01 10:20:30: Data has been received.\n"+
			"2024-05-01 10:20:30: Device is closed\n",
		string(data))
}

func TestFileLogger_NewFilePerDay(t *testing.T) {
	dir := t.TempDir()
	l := NewFileLogger(dir)
	at := time.Date(2024, 5, 1, 23, 59, 59, 0, time.Local)
	l.now = func() time.Time { return at }
	l.Log("first")
	at = at.Add(time.Second)
	l.Log("second")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestFileLogger_WriteError(t *testing.T) {
	l := NewFileLogger(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, l.Write("lost"))
	l.Log("lost")
}

func TestMultiLogger(t *testing.T) {
	a, b := &memLogger{}, &memLogger{}
	MultiLogger(a, NopLogger, b).Log("No", "data")
	require.Equal(t, []string{"No data"}, a.lines)
	require.Equal(t, []string{"No data"}, b.lines)
}
