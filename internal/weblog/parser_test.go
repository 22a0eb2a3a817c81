package weblog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValid(t *testing.T) {
	line := `example.com - [14/Jul/2025:10:00:00 +0000] "GET /index.html HTTP/1.1" 404 512 "-" "curl/8.0" 9.9.9.9`

	rec, ok := ParseLine(line)
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, time.July, 14, 10, 0, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, "GET", rec.Method)
	assert.Equal(t, "/index.html", rec.Resource)
	assert.Equal(t, 404, rec.Status)
	assert.Equal(t, "9.9.9.9", rec.SourceIP)
}

func TestParseLineOffsetIgnored(t *testing.T) {
	// Offsets differ but the naive clock value is identical.
	a, ok := ParseLine(`[01/Jan/2025:12:30:45 +0000] "POST /login HTTP/1.1" 200 - 1.2.3.4`)
	require.True(t, ok)
	b, ok := ParseLine(`[01/Jan/2025:12:30:45 +0800] "POST /login HTTP/1.1" 200 - 1.2.3.4`)
	require.True(t, ok)
	assert.True(t, a.Timestamp.Equal(b.Timestamp))
}

func TestParseLineRejected(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"no brackets", `14/Jul/2025:10:00:00 +0000 "GET / HTTP/1.1" 200 1.1.1.1`},
		{"missing quoted request", `[14/Jul/2025:10:00:00 +0000] GET / HTTP/1.1 200 1.1.1.1`},
		{"bad month", `[14/Jux/2025:10:00:00 +0000] "GET / HTTP/1.1" 200 1.1.1.1`},
		{"bad hour", `[14/Jul/2025:25:00:00 +0000] "GET / HTTP/1.1" 200 1.1.1.1`},
		{"day overflow", `[31/Feb/2025:10:00:00 +0000] "GET / HTTP/1.1" 200 1.1.1.1`},
		{"two digit status", `[14/Jul/2025:10:00:00 +0000] "GET / HTTP/1.1" 20 1.1.1.1`},
		{"lowercase method", `[14/Jul/2025:10:00:00 +0000] "get / HTTP/1.1" 200 1.1.1.1`},
		{"no offset", `[14/Jul/2025:10:00:00] "GET / HTTP/1.1" 200 1.1.1.1`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ParseLine(tc.line)
			assert.False(t, ok)
		})
	}
}

func TestParseTime(t *testing.T) {
	ts, ok := ParseTime("14/Jul/2025:23:59:59")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.July, 14, 23, 59, 59, 0, time.UTC), ts)

	for _, bad := range []string{"", "2025-07-14 10:00:00", "14/Jul/2025", "14/Jul/2025:24:00:00", "abc"} {
		_, ok := ParseTime(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}
