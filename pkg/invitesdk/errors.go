package invitesdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes used in ErrorResponse bodies.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeUnauthorized      = "unauthorized"
	ErrorCodeInsufficientScope = "insufficient_scope"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeAlreadyRevoked    = "already_revoked"
	ErrorCodeServerError       = "server_error"
)

// APIError is a non-2xx response decoded into an error. The SDK
// returns it from every call that reached the server.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Description)
}

// decodeJSON decodes a response body into out when the status matches
// wantStatus, and into an *APIError otherwise.
func decodeJSON(resp *http.Response, out any, wantStatus int) error {
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Code = body.Error
			apiErr.Description = body.ErrorDescription
		} else {
			apiErr.Code = ErrorCodeServerError
			apiErr.Description = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
