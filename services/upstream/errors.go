package upstream

import "fmt"

// StatusError is returned when the central API answers with a non-200 status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: got response code %d. full response: %s", e.Endpoint, e.StatusCode, e.Body)
}

// APIError is returned when the central API answers with Success=false.
type APIError struct {
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: got success=false", e.Endpoint)
	}
	return fmt.Sprintf("%s: got success=false: %s", e.Endpoint, e.Message)
}
