package history

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/autologin/pkg/console"
)

var hkt = time.FixedZone("HKT", 8*60*60)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestLog(t *testing.T, content string, opts ...Option) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "login_history.log")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	base := []Option{
		WithLocation(hkt),
		WithRetentionDays(90),
		WithClock(fixedClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))),
	}
	return New(path, append(base, opts...)...)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRotate_KeepsOnlyInWindowEntries(t *testing.T) {
	content := "2024-01-10: user1 login succeeded\n" +
		"2024-03-03: user1 login failed\n" +
		"2024-03-04: user2 login succeeded\n" +
		"\n" +
		"not-a-date: something\n" +
		"2024-05-31: Summary: 1/1 succeeded\n"
	l := newTestLog(t, content)

	stats, err := l.Rotate()
	require.NoError(t, err)

	assert.Equal(t, RotateStats{Kept: 2, Dropped: 3}, stats)
	assert.Equal(t,
		"2024-03-04: user2 login succeeded\n2024-05-31: Summary: 1/1 succeeded\n",
		readFile(t, l.Path()))
}

func TestRotate_MissingFileIsNoop(t *testing.T) {
	l := newTestLog(t, "")

	stats, err := l.Rotate()
	require.NoError(t, err)
	assert.Equal(t, RotateStats{}, stats)

	_, err = os.Stat(l.Path())
	assert.True(t, os.IsNotExist(err), "rotate must not create the file")
}

func TestRotate_AllExpiredLeavesEmptyFile(t *testing.T) {
	l := newTestLog(t, "2020-01-01: old\n2020-01-02: older\n")

	stats, err := l.Rotate()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Kept)
	assert.Equal(t, 2, stats.Dropped)

	info, err := os.Stat(l.Path())
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestRotate_CustomRetention(t *testing.T) {
	// Six dates: May 27 through June 1.
	l := newTestLog(t, "2024-05-26: a\n2024-05-27: b\n", WithRetentionDays(6))

	_, err := l.Rotate()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-27: b\n", readFile(t, l.Path()))
}

func TestRotate_OverlongLineIsDropped(t *testing.T) {
	content := "2024-05-30: keep\n" +
		strings.Repeat("x", 2*1024*1024) + "\n" +
		"2024-05-31: keep2\n"
	l := newTestLog(t, content)

	stats, err := l.Rotate()
	require.NoError(t, err)
	assert.Equal(t, RotateStats{Kept: 2, Dropped: 1}, stats)
	assert.Equal(t, "2024-05-30: keep\n2024-05-31: keep2\n", readFile(t, l.Path()))
}

func TestRotate_ReportsProgress(t *testing.T) {
	var out bytes.Buffer
	l := newTestLog(t, "2024-05-30: a\n", WithConsole(console.New(&out, nil)))

	_, err := l.Rotate()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "older than 90 days")
	assert.Contains(t, out.String(), "1 kept, 0 dropped")
}

func TestCutoff_UsesLocalCalendarDate(t *testing.T) {
	// 20:00 UTC on May 31 is already June 1 in UTC+8.
	l := newTestLog(t, "", WithClock(fixedClock(time.Date(2024, 5, 31, 20, 0, 0, 0, time.UTC))))

	assert.True(t, l.Cutoff().Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, hkt)),
		"cutoff = %v", l.Cutoff())
}

func TestWrite_AppendsDatedLine(t *testing.T) {
	var out bytes.Buffer
	l := newTestLog(t, "2024-05-31: earlier\n",
		WithClock(fixedClock(time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC))),
		WithConsole(console.New(&out, nil)))

	l.Write("user1 login succeeded")
	l.Write("Summary: 1/1 succeeded")

	assert.Equal(t,
		"2024-05-31: earlier\n2024-06-02: user1 login succeeded\n2024-06-02: Summary: 1/1 succeeded\n",
		readFile(t, l.Path()))
	assert.Contains(t, out.String(), "log written: user1 login succeeded")
}

func TestWrite_CreatesFile(t *testing.T) {
	l := newTestLog(t, "")

	l.Write("hello")

	assert.Equal(t, "2024-06-01: hello\n", readFile(t, l.Path()))
}

func TestWrite_FailureGoesToConsole(t *testing.T) {
	var errOut bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing-dir", "history.log")
	l := New(path, WithConsole(console.New(nil, &errOut)))

	assert.NotPanics(t, func() { l.Write("x") })
	assert.Contains(t, errOut.String(), "writing history failed")
}

func TestRead(t *testing.T) {
	l := newTestLog(t, "2024-05-30: a\n\nbad line\n2024-05-31: b: c\n")

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].Valid)
	assert.Equal(t, 1, entries[0].LineNum)
	assert.False(t, entries[1].Valid)
	assert.Equal(t, 3, entries[1].LineNum)
	assert.True(t, entries[2].Date.Equal(time.Date(2024, 5, 31, 0, 0, 0, 0, hkt)))
}

func TestRead_CRLFAndUnterminatedLastLine(t *testing.T) {
	l := newTestLog(t, "2024-05-30: a\r\n2024-05-31: b")

	entries, err := l.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-05-30: a", entries[0].Raw)
	assert.Equal(t, "2024-05-31: b", entries[1].Raw)
	assert.Equal(t, 2, entries[1].LineNum)
}

func TestRead_MissingFile(t *testing.T) {
	l := newTestLog(t, "")

	entries, err := l.Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNew_Defaults(t *testing.T) {
	l := New("x.log", WithRetentionDays(0), WithLocation(nil), WithClock(nil), WithConsole(nil))

	assert.Equal(t, "x.log", l.Path())
	assert.Equal(t, 90, l.RetentionDays())
}
