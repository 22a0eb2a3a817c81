package models

// TableColumn describes one column of a structured result table.
type TableColumn struct {
	Key   string `json:"key" msgpack:"key"`
	Label string `json:"label" msgpack:"label"`
}

// TableRow is one matched log record in table form. The timestamp keeps the
// log's own literal format so the frontend renders it unmodified.
type TableRow struct {
	Timestamp  string `json:"timestamp" msgpack:"timestamp"`
	Resource   string `json:"resource" msgpack:"resource"`
	SourceIP   string `json:"source_ip" msgpack:"source_ip"`
	StatusCode int    `json:"status_code" msgpack:"status_code"`
}

// TableData holds ordered headers and body rows. Body rows preserve the
// order in which matching records were encountered in the log file.
type TableData struct {
	Headers []TableColumn `json:"headers" msgpack:"headers"`
	Body    []TableRow    `json:"body" msgpack:"body"`
}

// StructuredTable is the tabular result of one filter invocation. A new
// table replaces any prior one for the session; there is no accumulation.
type StructuredTable struct {
	Type string    `json:"type" msgpack:"type"` // always "table"
	Data TableData `json:"data" msgpack:"data"`
}

// IsEmpty reports whether the table carries no data at all, which is how an
// invalid criteria set or unreadable log source presents to callers.
func (t StructuredTable) IsEmpty() bool {
	return t.Type == "" && t.Data.Headers == nil && t.Data.Body == nil
}

// ResourceCount pairs a requested resource with its request count.
type ResourceCount struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

// IPStat aggregates one source IP: total request count plus its most
// requested resources.
type IPStat struct {
	IP           string          `json:"ip"`
	Count        int             `json:"count"`
	TopResources []ResourceCount `json:"topResources"`
}

// AggregateStats is the derived statistics for one filter invocation,
// recomputed per query and never cached.
type AggregateStats struct {
	TopIPs       []IPStat        `json:"topIps"`       // up to 10, descending count
	TopResources []ResourceCount `json:"topResources"` // up to 10, descending count
}
