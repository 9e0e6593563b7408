package whatsapp

import "fmt"

// ConfigurationError means no usable channel credentials were resolved.
// Non-fatal: the dispatcher goes straight to the fallback link.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "channel not configured: " + e.Reason
}

// ValidationError marks a malformed recipient or payload. It is the
// only failure a dispatch surfaces to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a network or timeout failure talking to the
// remote channel.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "whatsapp transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteRejection is a structured error returned by the remote channel.
type RemoteRejection struct {
	Code    int
	Subcode int
	Message string
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("whatsapp api error %d: %s", e.Code, e.Message)
}

// remoteErrorText maps recognized Graph API error codes to messages an
// operator can act on. Unrecognized codes keep the remote message.
func remoteErrorText(code int, remote string) string {
	switch code {
	case 190:
		return "access token expired or invalid"
	case 132000:
		return "template parameter count mismatch"
	case 132001:
		return "template not approved or does not exist"
	case 131030:
		return "recipient phone number not in allowed list"
	case 131026:
		return "recipient is not a WhatsApp user"
	case 80007:
		return "WhatsApp rate limit reached"
	}
	return remote
}
