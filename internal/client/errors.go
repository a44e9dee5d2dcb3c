package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenericErrorMessage is the message of an APIError whose response body did
// not carry a detail.
const GenericErrorMessage = "Something went wrong. Please try again."

var (
	// ErrMalformedResponse indicates that a response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response body")

	// ErrUnconfigured indicates that a Mock method was called without being
	// configured.
	ErrUnconfigured = errors.New("unconfigured mock call")
)

// APIError is returned when the backend responds with a non-2xx status.
type APIError struct {
	Status int
	Detail string
}

func (e APIError) Error() string {
	if e.Detail == "" {
		return GenericErrorMessage
	}
	return e.Detail
}

// IsUnauthorized indicates if the backend rejected the request's credentials.
func (e APIError) IsUnauthorized() bool {
	return e.Status == 401 || e.Status == 403
}

// AsAPIError checks to see if the passed error is of type *APIError.
func AsAPIError(err error) *APIError {
	apiErr := new(APIError)
	if errors.As(err, apiErr) {
		return apiErr
	}
	return nil
}

// ValidationError is returned when an input fails client-side validation.
// No request is sent in this case.
type ValidationError struct {
	Fields []string
	err    validator.ValidationErrors
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("field(s) validation failure: %s", strings.Join(e.Fields, ", "))
}

func (e ValidationError) Unwrap() error {
	return e.err
}

// AsValidationError checks to see if the passed error is of type
// *ValidationError.
func AsValidationError(err error) *ValidationError {
	valErr := new(ValidationError)
	if errors.As(err, valErr) {
		return valErr
	}
	return nil
}

func newValidationError(err error) error {
	var valerrors validator.ValidationErrors
	if !errors.As(err, &valerrors) {
		return fmt.Errorf("validate input; error: %w", err)
	}

	fields := make([]string, len(valerrors))
	for i, err := range valerrors {
		fields[i] = fmt.Sprintf("\"%s\" failed \"%s\" validator", err.Field(), err.Tag())
	}
	return ValidationError{Fields: fields, err: valerrors}
}

// detail extracts a human-readable message from an error response body. The
// backend answers either {"detail": "message"} or, for request validation
// failures, {"detail": [{"msg": "message"}, ...]}.
func detail(body []byte) string {
	var res struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &res); err != nil || len(res.Detail) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(res.Detail, &msg); err == nil {
		return strings.TrimSpace(msg)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(res.Detail, &items); err != nil {
		return ""
	}

	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg != "" {
			msgs = append(msgs, item.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}
