package api

import "fmt"

// NetworkError covers transport failures and non-success server responses.
type NetworkError struct {
	Op      string // "fetch sessions", "update link", "login"
	Status  int    // HTTP status code, 0 when the transport itself failed
	Message string
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// FormatError means the server responded successfully but the payload does
// not have the expected shape.
type FormatError struct {
	Op     string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %s", e.Op, e.Reason)
}
