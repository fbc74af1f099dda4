package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }

func TestJournal(t *testing.T) {
	dir := t.TempDir()
	clock := &fixedClock{now: time.Date(2025, 3, 14, 9, 5, 30, 0, time.Local)}

	journal := NewJournal(dir, clock)
	journal.Info("file orders.xlsx processed successfully (3 rows)")
	journal.Error(`file sales.xlsx: missing column "ШК"`)

	clock.now = clock.now.Add(24 * time.Hour)
	journal.Info("next day")

	data, err := os.ReadFile(filepath.Join(dir, "2025-03-14.log"))
	require.NoError(t, err)
	require.Equal(t,
		"[2025-03-14 09:05] INFO: file orders.xlsx processed successfully (3 rows)\n"+
			"[2025-03-14 09:05] ERROR: file sales.xlsx: missing column \"ШК\"\n",
		string(data))

	data, err = os.ReadFile(filepath.Join(dir, "2025-03-15.log"))
	require.NoError(t, err)
	require.Equal(t, "[2025-03-15 09:05] INFO: next day\n", string(data))
}

func TestJournalUnwritableDir(t *testing.T) {
	journal := NewJournal(filepath.Join(t.TempDir(), "missing", "dir"), nil)
	require.NotPanics(t, func() {
		journal.Error("lost")
	})
}

func TestNewZapLog(t *testing.T) {
	_, err := NewZapLog(configFor("info"))
	require.NoError(t, err)

	_, err = NewZapLog(configFor("loud"))
	require.Error(t, err)
}
