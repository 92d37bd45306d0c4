package eboekhouden

import "github.com/cockroachdb/errors"

// ErrTransport marks failures of the underlying channel: the call never
// produced a usable response envelope. Transport implementations mark their
// own errors with it; the client additionally marks anything an injected
// Transport returns.
var ErrTransport = errors.New("transport failure")

// SessionError means OpenSession was rejected by the service, typically bad
// credentials. The client does not retry; the session stays closed.
type SessionError struct {
	Description string
}

func (e *SessionError) Error() string {
	return "open session failed: " + e.Description
}

// RemoteServiceError is a service-level error embedded in an otherwise
// well-transported response. The message is the service's own description;
// the service exposes no usable code taxonomy beyond "an error occurred".
type RemoteServiceError struct {
	Operation   string
	Description string
}

func (e *RemoteServiceError) Error() string {
	return e.Description
}

// IsTransport reports whether err came from the transport layer.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsSession reports whether err is a session-establishment failure.
func IsSession(err error) bool {
	var se *SessionError
	return errors.As(err, &se)
}

// IsRemote reports whether err is a service-reported error.
func IsRemote(err error) bool {
	var re *RemoteServiceError
	return errors.As(err, &re)
}

// checkError inspects a response envelope for the error signal the service
// nests under <operation>Result/ErrorMsg. It must run before any field of
// the response is read as data: a response carrying an error signal is never
// partially decoded into a domain object.
func checkError(operation string, resp map[string]any) error {
	result := asRecord(resp[operation+"Result"])
	errMsg := asRecord(result["ErrorMsg"])
	if code := errMsg.str("LastErrorCode"); code != "" {
		return &RemoteServiceError{
			Operation:   operation,
			Description: errMsg.str("LastErrorDescription"),
		}
	}
	return nil
}
