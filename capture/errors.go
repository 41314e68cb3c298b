package capture

import (
	"fmt"
	"strings"
)

// ErrorKind classifies capture failures.
type ErrorKind int

const (
	// KindOpenFailed is the catch-all for a device that could not be opened
	KindOpenFailed ErrorKind = iota
	// KindDeviceNotFound means the device index is not in the device list
	KindDeviceNotFound
	// KindAlreadyRunning means Start was called on a running capture
	KindAlreadyRunning
	// KindPermissionDenied means the OS refused camera access
	KindPermissionDenied
	// KindStreamFailed means the device opened but would not stream
	KindStreamFailed
	// KindNoDevices means enumeration found no cameras
	KindNoDevices
	// KindQueryFailed means device enumeration itself failed
	KindQueryFailed
)

// String returns a human-readable string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindDeviceNotFound:
		return "device-not-found"
	case KindAlreadyRunning:
		return "already-running"
	case KindPermissionDenied:
		return "permission-denied"
	case KindStreamFailed:
		return "stream-failed"
	case KindNoDevices:
		return "no-devices"
	case KindQueryFailed:
		return "query-failed"
	default:
		return "open-failed"
	}
}

// Error is a capture failure. Compare kinds with errors.Is against the
// sentinel values below.
type Error struct {
	Kind ErrorKind
	// Index is the device index for KindDeviceNotFound
	Index int
	Err   error
}

// Sentinels for errors.Is.
var (
	ErrOpenFailed       = &Error{Kind: KindOpenFailed}
	ErrDeviceNotFound   = &Error{Kind: KindDeviceNotFound}
	ErrAlreadyRunning   = &Error{Kind: KindAlreadyRunning}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrStreamFailed     = &Error{Kind: KindStreamFailed}
	ErrNoDevices        = &Error{Kind: KindNoDevices}
	ErrQueryFailed      = &Error{Kind: KindQueryFailed}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindDeviceNotFound:
		return fmt.Sprintf("Camera device %d not found. Run 'list-cameras' to see available devices", e.Index)
	case KindAlreadyRunning:
		return "Capture thread is already running"
	case KindPermissionDenied:
		return "Camera permission denied. On macOS, grant access in System Settings > Privacy & Security > Camera"
	case KindStreamFailed:
		return "Failed to start camera stream: " + e.detail()
	case KindNoDevices:
		return "No cameras found"
	case KindQueryFailed:
		return "Failed to query cameras: " + e.detail()
	default:
		return "Failed to open camera: " + e.detail()
	}
}

func (e *Error) detail() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var permissionKeywords = []string{"permission", "denied", "authorization", "access"}

// isPermissionError reports whether err reads like an OS access refusal.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, kw := range permissionKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// classifyOpenError turns a device open failure into a capture Error.
func classifyOpenError(err error) *Error {
	if isPermissionError(err) {
		return &Error{Kind: KindPermissionDenied, Err: err}
	}
	return &Error{Kind: KindOpenFailed, Err: err}
}
