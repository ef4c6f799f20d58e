/*
dto.go - Request/response data structures for the operations API

PURPOSE:
  Wire types only. Every response carries the same envelope: success
  flag and a millisecond timestamp, plus either the operation payload
  or an error body with a stable machine-readable code.

ERROR CODES:
  DISABLED               service switched off in settings
  WRONG_SITE             page URL doesn't match the operation's portal
  NO_DATA                nothing extracted / nothing stored / no rows matched
  INVALID_RATE           hourly rate missing or not positive
  OPERATION_IN_PROGRESS  another operation holds the single-flight guard
  NO_TIME_BOXES          calendar has no clickable day cells
  ALL_BOXES_SELECTED     every day cell is already selected
  INTERNAL               anything unexpected

SEE ALSO:
  - handlers.go: where these are filled in
*/
package api

import (
	"github.com/warp/timesheet-bridge/store/sqlite"
	"github.com/warp/timesheet-bridge/timesheet"
	"github.com/warp/timesheet-bridge/transfer"
)

// =============================================================================
// REQUESTS
// =============================================================================

// OperationRequest is the body of every page-bound operation: the URL
// the page was captured from and its rendered HTML. HourlyRate is
// only read by calculate/report and falls back to the stored setting.
type OperationRequest struct {
	PageURL    string  `json:"page_url"`
	HTML       string  `json:"html"`
	HourlyRate float64 `json:"hourly_rate,omitempty"`
}

// SettingsRequest updates the persisted service configuration.
type SettingsRequest struct {
	Enabled    bool    `json:"enabled"`
	HourlyRate float64 `json:"hourly_rate"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for failed operations.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Timestamp int64     `json:"timestamp"`
	Error     ErrorBody `json:"error"`
}

// CopyResponse reports how many days were captured and stored.
type CopyResponse struct {
	Success     bool   `json:"success"`
	Timestamp   int64  `json:"timestamp"`
	OperationID string `json:"operation_id"`
	Count       int    `json:"count"`
}

// PasteResponse carries the write plan for the Target page.
type PasteResponse struct {
	Success     bool                  `json:"success"`
	Timestamp   int64                 `json:"timestamp"`
	OperationID string                `json:"operation_id"`
	Count       int                   `json:"count"`
	Writes      []transfer.FieldWrite `json:"writes"`
}

// AutoClickResponse carries the click plan for the Source calendar.
type AutoClickResponse struct {
	Success      bool                `json:"success"`
	Timestamp    int64               `json:"timestamp"`
	OperationID  string              `json:"operation_id"`
	ClickedCount int                 `json:"clicked_count"`
	TotalBoxes   int                 `json:"total_boxes"`
	SkippedCount int                 `json:"skipped_count"`
	Clicks       []transfer.BoxClick `json:"clicks"`
}

// CalculateResponse carries the payroll estimate.
type CalculateResponse struct {
	Success     bool                       `json:"success"`
	Timestamp   int64                      `json:"timestamp"`
	OperationID string                     `json:"operation_id"`
	Result      timesheet.CalculatorResult `json:"result"`
}

// AnalyticsResponse summarizes the operation counters.
type AnalyticsResponse struct {
	Success         bool                            `json:"success"`
	Timestamp       int64                           `json:"timestamp"`
	Operations      map[string]sqlite.OperationStat `json:"operations"`
	TotalOperations int                             `json:"total_operations"`
	TotalSuccesses  int                             `json:"total_successes"`
	TotalFailures   int                             `json:"total_failures"`
	SuccessRate     int                             `json:"success_rate"` // whole percent
}

// DataResponse exposes the persisted timesheet map.
type DataResponse struct {
	Success   bool           `json:"success"`
	Timestamp int64          `json:"timestamp"`
	Count     int            `json:"count"`
	Data      timesheet.Data `json:"data"`
}

// SettingsResponse mirrors the stored configuration.
type SettingsResponse struct {
	Success    bool    `json:"success"`
	Timestamp  int64   `json:"timestamp"`
	Enabled    bool    `json:"enabled"`
	HourlyRate float64 `json:"hourly_rate"`
}

// AckResponse is the envelope with no payload.
type AckResponse struct {
	Success   bool  `json:"success"`
	Timestamp int64 `json:"timestamp"`
}
