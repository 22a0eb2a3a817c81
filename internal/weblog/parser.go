// Package weblog implements the access log analytics engine: parsing raw
// log lines into records and filtering/aggregating them per query.
package weblog

import (
	"regexp"
	"strings"
	"time"

	"github.com/weblog-assistant/backend/internal/models"
)

// TimeLayout is the time literal format used by the log grammar and by all
// criteria time fields: dd/Mon/yyyy:HH:MM:SS.
const TimeLayout = "02/Jan/2006:15:04:05"

// requestRegex matches the timestamp/request/status portion of an access log
// line: "[14/Jul/2025:10:00:00 +0000] "GET /index.html HTTP/1.1" 404". The
// timezone offset is matched but not applied; timestamps are compared as
// naive local clock values.
var requestRegex = regexp.MustCompile(`\[(?P<time>[^\]]+) \+\d{4}\] "(?P<method>[A-Z]+) (?P<resource>[^ ]+) HTTP/[^"]+" (?P<status>\d{3})`)

// ParseLine parses one raw access log line. The second return value is false
// for any line that fails the grammar; malformed lines never produce an
// error, the caller simply skips them.
func ParseLine(line string) (models.LogRecord, bool) {
	m := requestRegex.FindStringSubmatch(line)
	if m == nil {
		return models.LogRecord{}, false
	}

	ts, ok := ParseTime(m[1])
	if !ok {
		return models.LogRecord{}, false
	}

	// The source IP is the last whitespace-separated token on the line.
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return models.LogRecord{}, false
	}
	sourceIP := fields[len(fields)-1]

	return models.LogRecord{
		Timestamp: ts,
		Method:    m[2],
		Resource:  m[3],
		Status:    parseInt3(m[4]),
		SourceIP:  sourceIP,
	}, true
}

var monthAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParseTime parses the fixed "02/Jan/2006:15:04:05" format using manual
// parsing for speed; the log scan calls this once per line.
func ParseTime(ts string) (time.Time, bool) {
	// Example: "14/Jul/2025:10:00:00" = 20 chars exactly.
	if len(ts) != 20 || ts[2] != '/' || ts[6] != '/' || ts[11] != ':' || ts[14] != ':' || ts[17] != ':' {
		return time.Time{}, false
	}

	day := parseInt2(ts[0:2])
	month, okMonth := monthAbbrev[ts[3:6]]
	year := parseInt4(ts[7:11])
	hour := parseInt2(ts[12:14])
	min := parseInt2(ts[15:17])
	sec := parseInt2(ts[18:20])

	if !okMonth || day < 1 || day > 31 || year < 0 ||
		hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	// time.Date normalizes out-of-range days (31/Feb becomes 3/Mar); reject
	// those instead of silently shifting the instant.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// parseInt2 parses a 2-digit decimal string. Returns -1 on error.
func parseInt2(s string) int {
	if len(s) != 2 {
		return -1
	}
	d1, d2 := s[0]-'0', s[1]-'0'
	if d1 > 9 || d2 > 9 {
		return -1
	}
	return int(d1)*10 + int(d2)
}

// parseInt3 parses a 3-digit decimal string. Returns -1 on error.
func parseInt3(s string) int {
	if len(s) != 3 {
		return -1
	}
	d1, d2, d3 := s[0]-'0', s[1]-'0', s[2]-'0'
	if d1 > 9 || d2 > 9 || d3 > 9 {
		return -1
	}
	return int(d1)*100 + int(d2)*10 + int(d3)
}

// parseInt4 parses a 4-digit decimal string. Returns -1 on error.
func parseInt4(s string) int {
	if len(s) != 4 {
		return -1
	}
	d1, d2, d3, d4 := s[0]-'0', s[1]-'0', s[2]-'0', s[3]-'0'
	if d1 > 9 || d2 > 9 || d3 > 9 || d4 > 9 {
		return -1
	}
	return int(d1)*1000 + int(d2)*100 + int(d3)*10 + int(d4)
}
