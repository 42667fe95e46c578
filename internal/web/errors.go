package web

// errors.go provides unified error response handling for the web layer.
//
// All errors are logged with full technical details server-side and
// returned to clients as user-friendly messages with action suggestions
// and a stable code for support reference.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err, statusCode)
//  3. Error is mapped via MapError to get a user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is returned as JSON

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrorResponse is the JSON structure for API error responses. Detail
// carries the underlying error text verbatim so callers (the import
// dialog in particular) can show exactly what the backend said.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Patterns are matched with strings.Contains and the first match
// wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB005)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate entries",
			Code:    "DB001",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Verify the record still exists",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again with a smaller file or later",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL003)
	// =========================================================================
	{
		pattern: "requis",
		msg: UserMessage{
			Message: "A required field is empty",
			Action:  "Fill in name and email before saving",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid value",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Pick one of the proposed options",
			Code:    "VAL002",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "Unknown contact field",
			Action:  "Verify the field name",
			Code:    "VAL003",
		},
	},

	// =========================================================================
	// File and Import Errors (FILE001-IMP003)
	// =========================================================================
	{
		pattern: "unsupported file",
		msg: UserMessage{
			Message: "File format is not supported",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or Excel file to upload",
			Code:    "FILE003",
		},
	},
	{
		pattern: "aucun contact valide",
		msg: UserMessage{
			Message: "No row had a company or an email after mapping",
			Action:  "Map the company or email column and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "unknown import session",
		msg: UserMessage{
			Message: "Import session not found",
			Action:  "The session may have expired. Please start a new import",
			Code:    "IMP002",
		},
	},
	{
		pattern: "unknown import field",
		msg: UserMessage{
			Message: "This column cannot receive imported data",
			Action:  "Map one of the importable contact fields",
			Code:    "IMP003",
		},
	},

	// =========================================================================
	// Auth and Rate Limiting (AUTH001, RATE001)
	// =========================================================================
	{
		pattern: "unauthorized",
		msg: UserMessage{
			Message: "Sign-in required",
			Action:  "Provide a valid session token",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match, or a generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// respondError logs the technical error server-side and returns the
// mapped user message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Detail:  err.Error(),
		Code:    userMsg.Code,
	})
}

// respondJSON encodes v as JSON with the given status code.
// Encoding errors are logged since headers are already sent.
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
