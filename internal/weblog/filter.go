package weblog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/weblog-assistant/backend/internal/models"
)

// Top-N limits for the statistical summary.
const (
	topIPLimit       = 10
	topResourceLimit = 10
	topPerIPLimit    = 5
)

// tableColumns is the fixed column set of every structured table.
var tableColumns = []models.TableColumn{
	{Key: "timestamp", Label: "Time"},
	{Key: "resource", Label: "Requested Resource"},
	{Key: "source_ip", Label: "Source IP"},
	{Key: "status_code", Label: "Status Code"},
}

// Engine binds the analytics functions to a configured log source. Each
// query performs a full sequential scan of the file; the corpus is treated
// as bounded and static within a process lifetime, so there is no indexing
// or caching across calls.
type Engine struct {
	logPath string
}

// NewEngine creates an engine reading the given access log file.
func NewEngine(logPath string) *Engine {
	return &Engine{logPath: logPath}
}

// Filter scans the configured log file with the given criteria. A missing or
// unreadable file is reported the same way as zero matches (empty triple);
// the only distinction is the error-level diagnostic logged here.
func (e *Engine) Filter(criteria models.FilterCriteria) (string, []string, models.StructuredTable) {
	f, err := os.Open(e.logPath)
	if err != nil {
		slog.Error("log source unavailable", "path", e.logPath, "error", err)
		return "", nil, models.StructuredTable{}
	}
	defer f.Close()

	return Filter(f, criteria)
}

// Filter filters raw log lines from r by the given criteria and returns the
// textual statistical summary, the matched raw lines in file order, and the
// structured table. Unparsable criteria times or a non-numeric status code
// yield the empty triple; this is a recoverable "no results" outcome, not an
// error. The result is a pure function of (lines, criteria).
func Filter(r io.Reader, criteria models.FilterCriteria) (string, []string, models.StructuredTable) {
	startDt, okStart := ParseTime(criteria.StartTime)
	endDt, okEnd := ParseTime(criteria.EndTime)
	if !okStart || !okEnd {
		slog.Warn("invalid criteria time range", "start", criteria.StartTime, "end", criteria.EndTime)
		return "", nil, models.StructuredTable{}
	}

	statusCode, err := strconv.Atoi(strings.TrimSpace(criteria.StatusCode))
	if err != nil {
		slog.Warn("invalid criteria status code", "status", criteria.StatusCode)
		return "", nil, models.StructuredTable{}
	}

	var matched []string
	body := make([]models.TableRow, 0)
	agg := newAggregator()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		rec, ok := ParseLine(line)
		if !ok {
			continue
		}

		// Window bounds are inclusive on both ends.
		if rec.Timestamp.Before(startDt) || rec.Timestamp.After(endDt) {
			continue
		}
		if rec.Status != statusCode {
			continue
		}
		if criteria.HTTPMethod != "" && !strings.EqualFold(rec.Method, criteria.HTTPMethod) {
			continue
		}
		if criteria.SourceIP != "" && rec.SourceIP != criteria.SourceIP {
			continue
		}

		matched = append(matched, strings.TrimSpace(line))
		body = append(body, models.TableRow{
			Timestamp:  rec.Timestamp.Format(TimeLayout),
			Resource:   rec.Resource,
			SourceIP:   rec.SourceIP,
			StatusCode: rec.Status,
		})
		agg.add(rec)
	}
	if err := scanner.Err(); err != nil {
		slog.Error("log source read failed", "error", err)
		return "", nil, models.StructuredTable{}
	}

	table := models.StructuredTable{
		Type: "table",
		Data: models.TableData{Headers: tableColumns, Body: body},
	}
	return renderSummary(agg.stats()), matched, table
}

// aggregator accumulates per-IP and per-resource request counts while
// preserving first-encounter order for deterministic tie-breaking.
type aggregator struct {
	ipCounts      map[string]int
	ipOrder       []string
	ipResources   map[string]map[string]int
	ipResourceSeq map[string][]string
	resCounts     map[string]int
	resOrder      []string
}

func newAggregator() *aggregator {
	return &aggregator{
		ipCounts:      make(map[string]int),
		ipResources:   make(map[string]map[string]int),
		ipResourceSeq: make(map[string][]string),
		resCounts:     make(map[string]int),
	}
}

func (a *aggregator) add(rec models.LogRecord) {
	if _, seen := a.ipCounts[rec.SourceIP]; !seen {
		a.ipOrder = append(a.ipOrder, rec.SourceIP)
		a.ipResources[rec.SourceIP] = make(map[string]int)
	}
	a.ipCounts[rec.SourceIP]++

	perIP := a.ipResources[rec.SourceIP]
	if _, seen := perIP[rec.Resource]; !seen {
		a.ipResourceSeq[rec.SourceIP] = append(a.ipResourceSeq[rec.SourceIP], rec.Resource)
	}
	perIP[rec.Resource]++

	if _, seen := a.resCounts[rec.Resource]; !seen {
		a.resOrder = append(a.resOrder, rec.Resource)
	}
	a.resCounts[rec.Resource]++
}

// stats derives the top-N lists. Ordering is by descending count with ties
// broken by first-encountered order.
func (a *aggregator) stats() models.AggregateStats {
	topIPs := make([]models.IPStat, 0, len(a.ipOrder))
	for _, ip := range a.ipOrder {
		topIPs = append(topIPs, models.IPStat{
			IP:           ip,
			Count:        a.ipCounts[ip],
			TopResources: topCounts(a.ipResourceSeq[ip], a.ipResources[ip], topPerIPLimit),
		})
	}
	sort.SliceStable(topIPs, func(i, j int) bool { return topIPs[i].Count > topIPs[j].Count })
	if len(topIPs) > topIPLimit {
		topIPs = topIPs[:topIPLimit]
	}

	return models.AggregateStats{
		TopIPs:       topIPs,
		TopResources: topCounts(a.resOrder, a.resCounts, topResourceLimit),
	}
}

func topCounts(order []string, counts map[string]int, limit int) []models.ResourceCount {
	out := make([]models.ResourceCount, 0, len(order))
	for _, key := range order {
		out = append(out, models.ResourceCount{Resource: key, Count: counts[key]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// renderSummary builds the textual summary handed to the response generator.
func renderSummary(stats models.AggregateStats) string {
	var b strings.Builder

	b.WriteString("Top 10 source IPs by request count:\n")
	for _, ip := range stats.TopIPs {
		parts := make([]string, 0, len(ip.TopResources))
		for _, rc := range ip.TopResources {
			parts = append(parts, fmt.Sprintf("%s (%d)", rc.Resource, rc.Count))
		}
		fmt.Fprintf(&b, "- IP: %s | requests: %d | resources: %s\n", ip.IP, ip.Count, strings.Join(parts, ", "))
	}

	b.WriteString("\nTop 10 requested resources:\n")
	for _, rc := range stats.TopResources {
		fmt.Fprintf(&b, "- resource: %s | requests: %d\n", rc.Resource, rc.Count)
	}

	return strings.TrimRight(b.String(), "\n")
}
