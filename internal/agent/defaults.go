package agent

import (
	"time"

	"github.com/weblog-assistant/backend/internal/models"
	"github.com/weblog-assistant/backend/internal/weblog"
)

// DefaultStatusCode is applied when the extractor returns no status code.
const DefaultStatusCode = "404"

// DefaultPolicy resolves a partial extraction result into full criteria.
// It must be a pure function of (params, now) so defaults are testable
// independent of the wall clock.
type DefaultPolicy func(params models.QueryParams, now time.Time) models.FilterCriteria

// ApplyDefaults is the standard policy: a missing status code becomes 404
// and a missing start or end time falls back to the current day's full
// 00:00:00-23:59:59 window.
func ApplyDefaults(params models.QueryParams, now time.Time) models.FilterCriteria {
	criteria := models.FilterCriteria{
		StartTime:  params.StartTime,
		EndTime:    params.EndTime,
		StatusCode: params.StatusCode,
		HTTPMethod: params.HTTPMethod,
		SourceIP:   params.SourceIP,
	}

	if criteria.StatusCode == "" {
		criteria.StatusCode = DefaultStatusCode
	}

	if criteria.StartTime == "" || criteria.EndTime == "" {
		day := now.Format("02/Jan/2006")
		if criteria.StartTime == "" {
			criteria.StartTime = day + ":00:00:00"
		}
		if criteria.EndTime == "" {
			criteria.EndTime = day + ":23:59:59"
		}
	}

	return criteria
}

var _ LogTool = (*weblog.Engine)(nil)
