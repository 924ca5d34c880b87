package serr

import "fmt"

// ServiceError carries an HTTP status code and a client-safe message for an
// underlying error, plus arbitrary context values for logging.
type ServiceError struct {
	Cause      error
	StatusCode int
	Msg        string
	Env        map[string]any
}

func NewServiceError(cause error, statusCode int, msg string) *ServiceError {
	return &ServiceError{
		Cause:      cause,
		StatusCode: statusCode,
		Msg:        msg,
		Env:        make(map[string]any),
	}
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Msg
	}

	return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
