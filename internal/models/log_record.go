// Package models contains domain types for the web log assistant.
package models

import "time"

// LogRecord represents a single successfully parsed access log line.
// Records are created only by the parser and discarded after aggregation.
type LogRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Resource  string    `json:"resource"`
	Status    int       `json:"status"`
	SourceIP  string    `json:"sourceIp"`
}
