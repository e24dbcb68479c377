package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"investchat/pkg/advisor"
)

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeErrorResponse writes an error response with proper HTTP status and error details.
// Structured errors override httpStatus with the status mapped from their code.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var advErr *advisor.Error
	if errors.As(err, &advErr) {
		response.ErrorCode = string(advErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(advErr.Code)
		response.Code = httpStatus
	}
	if r != nil {
		response.RequestID = middleware.GetReqID(r.Context())
	}

	recordErrorMessage(w, response.Message)
	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code advisor.ErrorCode) int {
	switch code {
	case advisor.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case advisor.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case advisor.ErrCodeTransport, advisor.ErrCodeUpstreamStatus, advisor.ErrCodeDecode, advisor.ErrCodeIncomplete:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
