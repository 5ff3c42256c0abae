package integration

import (
	"errors"
	"fmt"
)

var (
	// ErrResponse is wrapped by every non-2xx TestRail answer.
	ErrResponse = errors.New("testrail request failed")
	// ErrProjectNotFound is returned when no project carries the configured name.
	ErrProjectNotFound = errors.New("testrail project not found")
	// ErrNoTestRailURL is returned when credentials exist but testrail.url is blank.
	ErrNoTestRailURL = errors.New("testrail url is not configured")
	// ErrMalformedCaseID is returned for report keys that are not integers.
	ErrMalformedCaseID = errors.New("malformed test case id")
)

type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return ErrResponse
}
