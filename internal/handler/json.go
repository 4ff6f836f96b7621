package handler

import (
	"encoding/json"
	"net/http"

	"github.com/attire-shop/attire/internal/domain"
	"github.com/attire-shop/attire/internal/middleware"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Decode reads the request body into v. Returns an EINVALID domain error
// for malformed JSON so callers can pass it straight to ErrorResponse.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Errorf(domain.EINVALID, "", "Invalid JSON request body")
	}
	return nil
}

// ErrorResponse writes a structured JSON error response for err.
// Internal errors are logged with full detail but return a generic message.
// Validation errors include the per-field messages.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	if domain.IsValidationError(err) {
		code = domain.EINVALID
		message = "Validation failed"
	}
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	if status >= 500 {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request error", attrs...)
	}

	body := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}

	if fields := domain.GetValidationFields(err); fields != nil {
		body["error"].(map[string]interface{})["fields"] = fields
	}

	JSON(w, status, body)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EPAYMENT:
		return http.StatusPaymentRequired // 402
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}
