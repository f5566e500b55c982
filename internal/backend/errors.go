package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

const genericMessage = "Terjadi kesalahan"

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int `json:"-"`
	Meta       struct {
		Message string `json:"message"`
	} `json:"meta"`
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	_ = json.Unmarshal(body, apiErr)
	apiErr.StatusCode = status
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.UserMessage())
}

// UserMessage picks the first message the backend provided for the cashier.
func (e *APIError) UserMessage() string {
	if msg := strings.TrimSpace(e.Meta.Message); msg != "" {
		return msg
	}
	if len(e.Errors) > 0 {
		if msg := strings.TrimSpace(e.Errors[0].Msg); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return genericMessage
}

// Code maps the HTTP status onto the service error codes.
func (e *APIError) Code() pkgerrors.Code {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case e.StatusCode == http.StatusConflict:
		return pkgerrors.CodeConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	case e.StatusCode >= http.StatusInternalServerError:
		return pkgerrors.CodeDependency
	default:
		return pkgerrors.CodeInternal
	}
}

func (e *APIError) asError() error {
	return pkgerrors.Wrap(e.Code(), e, e.UserMessage())
}
