package web

// errors.go maps errors to user-facing messages and writes error responses.
//
// # Error Codes Reference
//
//	GRD001 - Grid not found (404)
//	EXP001 - Unsupported export format (400)
//	EXP002 - Too many exports in progress (429)
//	CFG001 - Grid configuration error (500; 400 when caused by request input)
//	RND001 - A row failed to render (500)
//	BND001 - Selection highlighting could not be bound (500)
//	SEL001 - Selection request names an unknown row (400)
//	DB004  - Database connection refused (503)
//	DB006  - Database timeout (504)
//	ERR000 - Anything else (500)
//
// Typed errors are matched with errors.Is first; driver errors fall back to
// substring patterns, first match wins.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/checkgrid/internal/export"
	"github.com/JonMunkholm/checkgrid/internal/grid"
	"github.com/JonMunkholm/checkgrid/internal/logging"
	"github.com/JonMunkholm/checkgrid/internal/selection"
	"github.com/JonMunkholm/checkgrid/internal/web/templates"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
	Status  int    // HTTP status
}

// errSelection marks a select request naming a row or grid state that does
// not exist on the current page.
var errSelection = errors.New("invalid selection request")

type errorKind struct {
	target error
	msg    UserMessage
}

// Order matters: an unsupported export format also wraps the configuration
// error that rejected the token.
var errorKinds = []errorKind{
	{grid.ErrGridNotFound, UserMessage{"Grid not found", "Pick a grid from the index page", "GRD001", http.StatusNotFound}},
	{export.ErrUnsupportedFormat, UserMessage{"This export format is not available", "Choose one of the listed export formats", "EXP001", http.StatusBadRequest}},
	{export.ErrBusy, UserMessage{"The server is busy with other exports", "Try the export again in a few seconds", "EXP002", http.StatusTooManyRequests}},
	{errSelection, UserMessage{"The selected row is not on this page", "Reload the grid and try again", "SEL001", http.StatusBadRequest}},
	{grid.ErrConfiguration, UserMessage{"The grid is misconfigured", "Contact the administrator", "CFG001", http.StatusInternalServerError}},
	{grid.ErrRender, UserMessage{"A row could not be displayed", "Contact the administrator with the error code", "RND001", http.StatusInternalServerError}},
	{selection.ErrBinding, UserMessage{"Row highlighting is unavailable", "Reload the page", "BND001", http.StatusInternalServerError}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004", http.StatusServiceUnavailable}},
	{"timeout", UserMessage{"Operation timed out", "Try again later", "DB006", http.StatusGatewayTimeout}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError converts an error into a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errorPatterns[1].msg
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs the technical error and writes the user message in the
// form the client asked for: an HTMX fragment, JSON, or plain text.
// A non-zero status overrides the mapped one.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := MapError(err)
	if status == 0 {
		status = msg.Status
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	)

	switch {
	case isHTMX(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
	case wantsJSON(r):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
