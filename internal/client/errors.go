package client

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrRangeRequestsNotSupported marks a ProtocolError caused by a server
// that answered a range request without honoring it; match with errors.Is.
var ErrRangeRequestsNotSupported = errors.New("range requests are not supported")

// ConnectTimeoutError means the connection attempt itself stalled. Not
// retried internally; the transfer can be safely retried with resume.
type ConnectTimeoutError struct {
	Timeout time.Duration
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("connection timeout after %s", e.Timeout)
}

// IdleTimeoutError means no data arrived within the idle window. The bound
// is measured from the last received chunk, never from transfer start.
type IdleTimeoutError struct {
	Idle time.Duration
}

func (e *IdleTimeoutError) Error() string {
	return fmt.Sprintf("idle timeout: no data received for %s", e.Idle)
}

// ProtocolError is an unexpected status code from the server, such as a
// missing 206 when a range was requested. Retrying with resume semantics is
// wrong for this class.
type ProtocolError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NetworkError is a generic transport failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConfigurationError is malformed input caught at client construction.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Detail)
}

// UnsupportedFeatureError is a request for a capability this build does not
// carry, like HTTP/3.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("%s support is not available in this build", e.Feature)
}

// FilesystemError wraps a failure to create, open or write a destination.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem error for %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// WrapTransportError classifies an error returned by the HTTP client into
// the taxonomy above. Only dial-phase timeouts become ConnectTimeoutError;
// an expired overall request deadline is not a connection problem and stays
// a NetworkError carrying the transport's own message.
func WrapTransportError(op string, err error, connectTimeout time.Duration) error {
	if err == nil {
		return nil
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Timeout() {
		return &ConnectTimeoutError{Timeout: connectTimeout}
	}
	return &NetworkError{Op: op, Err: err}
}
