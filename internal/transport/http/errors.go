package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yagoscalfoni/order-processing/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeValidationFailed   = "validation_failed"
	codeRequestCancelled   = "request_cancelled"
	codeTaxUnavailable     = "tax_service_unavailable"
	codePersistenceFailed  = "persistence_failed"
	codeOrderNotFound      = "order_not_found"
	codeForbidden          = "forbidden"
	codeServiceUnavailable = "service_unavailable"
	codeInternalError      = "internal_error"
)

// Failure reasons reported to the outcome recorder.
const (
	reasonValidation  = "validation"
	reasonCancelled   = "cancelled"
	reasonTax         = "tax"
	reasonPersistence = "persistence"
	reasonInternal    = "internal"
	reasonBadRequest  = "bad_request"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

type serviceFailure struct {
	status  int
	code    string
	reason  string
	msg     string
	details []string
}

// classifyError maps an order service error to its HTTP representation.
func classifyError(err error) serviceFailure {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return serviceFailure{
			status:  http.StatusBadRequest,
			code:    codeValidationFailed,
			reason:  reasonValidation,
			msg:     "validation failed",
			details: verr.Messages,
		}
	case errors.Is(err, domain.ErrValidationFailed):
		return serviceFailure{http.StatusBadRequest, codeValidationFailed, reasonValidation, "validation failed", nil}
	case errors.Is(err, domain.ErrCancelled):
		return serviceFailure{http.StatusServiceUnavailable, codeRequestCancelled, reasonCancelled, "request cancelled", nil}
	case errors.Is(err, domain.ErrTaxServiceUnavailable):
		return serviceFailure{http.StatusServiceUnavailable, codeTaxUnavailable, reasonTax, "tax service unavailable", nil}
	case errors.Is(err, domain.ErrPersistenceFailed):
		return serviceFailure{http.StatusInternalServerError, codePersistenceFailed, reasonPersistence, "persistence failed", nil}
	default:
		return serviceFailure{http.StatusInternalServerError, codeInternalError, reasonInternal, "internal error", nil}
	}
}

func (f serviceFailure) write(w http.ResponseWriter) {
	writeErrorResponse(w, f.status, errorResponse{Error: f.msg, Code: f.code, Details: f.details})
}
