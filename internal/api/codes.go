package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Backend response codes, layered over the generic success/failure pair.
// These are the RespBean codes the server documents; everything not
// listed here is treated as a generic failure carrying the server's
// message.
const (
	CodeSuccess = 200
	CodeError   = 500

	// Login module.
	CodeLoginError     = 500210
	CodeMobileError    = 500211
	CodeMobileNotExist = 500212
	CodeBindError      = 500213
	CodeSessionError   = 500215

	// Flash-sale module.
	CodeCaptchaError = 500217
	CodeEmptyStock   = 500500
	CodeRepeatError  = 500501
)

// respBean is the uniform response envelope: {code, message, object}.
type respBean struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Object  json.RawMessage `json:"object"`
}

// APIError is a domain rejection: the request reached the backend and
// was refused with a documented code. Transport failures are returned
// as ordinary wrapped errors, never as *APIError.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: code %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: code %d", e.Code)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
