package aigen

import (
	"encoding/json"
	"fmt"
)

// ServiceError means the completion call itself failed: transport errors,
// rate limits, an unavailable provider, a timeout, or truncated output.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// InvalidResponseError means the service answered but the content could not
// be turned into a question set.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("ai response invalid: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
