package models

import (
	"errors"
	"fmt"
)

// ErrMatchNotFound is returned when a match cannot be located upstream
var ErrMatchNotFound = errors.New("match not found")

// UpstreamError represents a failed call to an external dependency
type UpstreamError struct {
	Service    string
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every failed HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
