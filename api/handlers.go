/*
handlers.go - HTTP handlers for the timesheet bridge operations

PURPOSE:
  Exposes the bridge via REST. Handlers parse the posted page HTML,
  delegate to the extract/transfer/timesheet packages, persist through
  the store, and serialize the envelope responses.

ENDPOINTS:
  Operations (single-flight, POST, body = OperationRequest):
    POST /api/operations/copy       Capture the Source page into the store
    POST /api/operations/paste      Plan the fill of the Target page
    POST /api/operations/autoclick  Plan the bulk calendar selection
    POST /api/operations/calculate  Payroll estimate from the Source page
    POST /api/report                Estimate as an .xlsx attachment

  Inspection:
    GET    /api/analytics           Operation counters + success rate
    GET    /api/data                The persisted timesheet map
    DELETE /api/data                Drop the persisted map
    GET    /api/settings            Service configuration
    PUT    /api/settings            Update service configuration

REQUEST FLOW:
  1. Take the single-flight guard (operations only)
  2. Check the service is enabled
  3. Match the page URL against the operation's portal
  4. Parse HTML, run the domain logic
  5. Record the outcome (copy/paste/autoclick only), respond

ERROR HANDLING:
  Domain sentinels map to stable error codes; see dto.go. Client
  errors are 4xx, the single-flight rejection is 409, everything
  unexpected is a 500 with code INTERNAL.

SEE ALSO:
  - dto.go: Request/response data structures
  - sites.go: Portal role detection
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/warp/timesheet-bridge/extract"
	"github.com/warp/timesheet-bridge/report"
	"github.com/warp/timesheet-bridge/store/sqlite"
	"github.com/warp/timesheet-bridge/timesheet"
	"github.com/warp/timesheet-bridge/transfer"
)

// Operation names used for analytics tracking. Calculate and report
// are read-only projections and are not tracked.
const (
	opCopy      = "copy"
	opPaste     = "paste"
	opAutoClick = "autoClick"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// op is the single-flight guard: at most one operation runs at a
	// time, concurrent requests fail fast instead of queueing.
	op sync.Mutex
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Copy captures the Source page into the store.
// POST /api/operations/copy
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	if !h.op.TryLock() {
		writeFailure(w, timesheet.ErrOperationInProgress)
		return
	}
	defer h.op.Unlock()
	ctx := r.Context()

	_, doc, err := h.preparePage(r, RoleSource)
	if err != nil {
		h.fail(ctx, w, opCopy, err)
		return
	}

	data, err := extract.BuildRecord(doc, time.Now())
	if err != nil {
		h.fail(ctx, w, opCopy, err)
		return
	}
	if err := h.Store.SaveTimesheet(ctx, data); err != nil {
		h.fail(ctx, w, opCopy, err)
		return
	}

	h.track(ctx, opCopy, true)
	writeJSON(w, http.StatusOK, CopyResponse{
		Success:     true,
		Timestamp:   now(),
		OperationID: uuid.NewString(),
		Count:       len(data),
	})
}

// Paste plans the fill of the Target page from the stored map.
// POST /api/operations/paste
func (h *Handler) Paste(w http.ResponseWriter, r *http.Request) {
	if !h.op.TryLock() {
		writeFailure(w, timesheet.ErrOperationInProgress)
		return
	}
	defer h.op.Unlock()
	ctx := r.Context()

	_, doc, err := h.preparePage(r, RoleTarget)
	if err != nil {
		h.fail(ctx, w, opPaste, err)
		return
	}

	data, err := h.Store.LoadTimesheet(ctx)
	if err != nil {
		h.fail(ctx, w, opPaste, err)
		return
	}
	res, err := transfer.Fill(doc, data)
	if err != nil {
		h.fail(ctx, w, opPaste, err)
		return
	}

	h.track(ctx, opPaste, true)
	writeJSON(w, http.StatusOK, PasteResponse{
		Success:     true,
		Timestamp:   now(),
		OperationID: uuid.NewString(),
		Count:       res.FilledCount,
		Writes:      res.Writes,
	})
}

// AutoClick plans the bulk selection of the Source calendar.
// POST /api/operations/autoclick
func (h *Handler) AutoClick(w http.ResponseWriter, r *http.Request) {
	if !h.op.TryLock() {
		writeFailure(w, timesheet.ErrOperationInProgress)
		return
	}
	defer h.op.Unlock()
	ctx := r.Context()

	_, doc, err := h.preparePage(r, RoleSource)
	if err != nil {
		h.fail(ctx, w, opAutoClick, err)
		return
	}

	res, err := transfer.PlanClicks(doc)
	if err != nil {
		h.fail(ctx, w, opAutoClick, err)
		return
	}

	h.track(ctx, opAutoClick, true)
	writeJSON(w, http.StatusOK, AutoClickResponse{
		Success:      true,
		Timestamp:    now(),
		OperationID:  uuid.NewString(),
		ClickedCount: res.ClickedCount,
		TotalBoxes:   res.TotalBoxes,
		SkippedCount: res.SkippedCount,
		Clicks:       res.Clicks,
	})
}

// Calculate builds the payroll estimate from the Source page.
// POST /api/operations/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if !h.op.TryLock() {
		writeFailure(w, timesheet.ErrOperationInProgress)
		return
	}
	defer h.op.Unlock()

	_, result, err := h.calculate(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CalculateResponse{
		Success:     true,
		Timestamp:   now(),
		OperationID: uuid.NewString(),
		Result:      result,
	})
}

// Report renders the payroll estimate as an .xlsx attachment.
// POST /api/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if !h.op.TryLock() {
		writeFailure(w, timesheet.ErrOperationInProgress)
		return
	}
	defer h.op.Unlock()

	rows, result, err := h.calculate(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	buf, filename, err := report.Build(rows, result)
	if err != nil {
		writeFailure(w, err)
		return
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// calculate is the shared Source-page extraction + salary path behind
// Calculate and Report. The request's hourly rate wins over the
// stored one; CalculateSalary rejects a rate that is still zero.
func (h *Handler) calculate(r *http.Request) ([]timesheet.ParsedRow, timesheet.CalculatorResult, error) {
	req, doc, err := h.preparePage(r, RoleSource)
	if err != nil {
		return nil, timesheet.CalculatorResult{}, err
	}

	rate := req.HourlyRate
	if rate <= 0 {
		settings, err := h.Store.Settings(r.Context())
		if err != nil {
			return nil, timesheet.CalculatorResult{}, err
		}
		rate = settings.HourlyRate
	}

	rows := extract.Rows(doc)
	result, err := timesheet.CalculateSalary(rows, rate)
	if err != nil {
		return nil, timesheet.CalculatorResult{}, err
	}
	return rows, result, nil
}

// =============================================================================
// INSPECTION
// =============================================================================

// Analytics returns the operation counters and overall success rate.
// GET /api/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.OperationStats(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}

	resp := AnalyticsResponse{
		Success:    true,
		Timestamp:  now(),
		Operations: stats,
	}
	for _, stat := range stats {
		resp.TotalSuccesses += stat.Successes
		resp.TotalFailures += stat.Failures
	}
	resp.TotalOperations = resp.TotalSuccesses + resp.TotalFailures
	if resp.TotalOperations > 0 {
		resp.SuccessRate = int(math.Round(
			float64(resp.TotalSuccesses) / float64(resp.TotalOperations) * 100))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetData returns the persisted timesheet map.
// GET /api/data
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	data, err := h.Store.LoadTimesheet(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse{
		Success:   true,
		Timestamp: now(),
		Count:     len(data),
		Data:      data,
	})
}

// ClearData drops the persisted timesheet map.
// DELETE /api/data
func (h *Handler) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ClearTimesheet(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AckResponse{Success: true, Timestamp: now()})
}

// GetSettings returns the service configuration.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		Success:    true,
		Timestamp:  now(),
		Enabled:    settings.Enabled,
		HourlyRate: settings.HourlyRate,
	})
}

// PutSettings updates the service configuration.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	err := h.Store.SaveSettings(r.Context(), sqlite.Settings{
		Enabled:    req.Enabled,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SettingsResponse{
		Success:    true,
		Timestamp:  now(),
		Enabled:    req.Enabled,
		HourlyRate: req.HourlyRate,
	})
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

// preparePage runs the common operation preamble: decode the body,
// check the service is enabled, match the page URL against the wanted
// portal role, and parse the HTML.
func (h *Handler) preparePage(r *http.Request, want Role) (OperationRequest, *goquery.Document, error) {
	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	settings, err := h.Store.Settings(r.Context())
	if err != nil {
		return req, nil, err
	}
	if !settings.Enabled {
		return req, nil, timesheet.ErrDisabled
	}

	role, ok := DetectRole(req.PageURL)
	if !ok || role != want {
		return req, nil, timesheet.ErrWrongContext
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(req.HTML))
	if err != nil {
		return req, nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return req, doc, nil
}

// fail records the outcome and writes the error envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	h.track(ctx, operation, false)
	writeFailure(w, err)
}

// track bumps the analytics counter; a tracking failure never masks
// the operation's own result.
func (h *Handler) track(ctx context.Context, operation string, success bool) {
	_ = h.Store.RecordOperation(ctx, operation, success)
}

func now() int64 {
	return time.Now().UnixMilli()
}

// writeFailure maps a domain error onto the envelope.
func writeFailure(w http.ResponseWriter, err error) {
	code, status := errorCode(err)
	writeError(w, status, code, err.Error())
}

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("invalid request body")

func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, errBadRequest):
		return "BAD_REQUEST", http.StatusBadRequest
	case errors.Is(err, timesheet.ErrDisabled):
		return "DISABLED", http.StatusForbidden
	case errors.Is(err, timesheet.ErrWrongContext):
		return "WRONG_SITE", http.StatusBadRequest
	case errors.Is(err, timesheet.ErrNoData):
		return "NO_DATA", http.StatusBadRequest
	case errors.Is(err, timesheet.ErrInvalidRate):
		return "INVALID_RATE", http.StatusBadRequest
	case errors.Is(err, timesheet.ErrOperationInProgress):
		return "OPERATION_IN_PROGRESS", http.StatusConflict
	case errors.Is(err, timesheet.ErrNoTimeBoxes):
		return "NO_TIME_BOXES", http.StatusBadRequest
	case errors.Is(err, timesheet.ErrAllBoxesSelected):
		return "ALL_BOXES_SELECTED", http.StatusBadRequest
	default:
		return "INTERNAL", http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Timestamp: now(),
		Error:     ErrorBody{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
