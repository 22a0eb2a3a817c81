package models

// QueryParams is the raw, possibly partial extraction result for one
// question. Every field may be empty; defaults are applied separately so the
// fill policy stays testable on its own.
type QueryParams struct {
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	StatusCode string `json:"status_code"`
	HTTPMethod string `json:"http_method"`
	SourceIP   string `json:"source_ip"`
}

// FilterCriteria is the resolved parameter set for one log filter
// invocation. StartTime and EndTime use the log's own time literal format
// (dd/Mon/yyyy:HH:MM:SS); the engine validates them at query time so an
// unparsable value degrades to an empty result instead of an error.
type FilterCriteria struct {
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	StatusCode string `json:"statusCode"`
	HTTPMethod string `json:"httpMethod,omitempty"` // case-insensitive match when set
	SourceIP   string `json:"sourceIp,omitempty"`   // exact match when set
}
