package nntp

import "fmt"

// ProtocolError represents an NNTP protocol error with the full context of
// the command/response conversation.
type ProtocolError struct {
	// Command is the NNTP command that was sent (e.g., "GROUP comp.lang.go")
	Command string

	// Response is the message received from the server
	Response string

	// Code is the numeric NNTP response code (e.g., 411)
	Code int
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("nntp: %s failed: %s (code %d)", e.Command, e.Response, e.Code)
}

// Is4xx returns true if the error code is in the 4xx range (command
// unavailable right now).
func (e *ProtocolError) Is4xx() bool {
	return e.Code >= 400 && e.Code < 500
}

// Is5xx returns true if the error code is in the 5xx range (command
// unknown or permanently refused).
func (e *ProtocolError) Is5xx() bool {
	return e.Code >= 500 && e.Code < 600
}

// IsTemporary returns true if the error is a temporary failure (4xx).
func (e *ProtocolError) IsTemporary() bool {
	return e.Is4xx()
}

// IsPermanent returns true if the error is a permanent failure (5xx).
func (e *ProtocolError) IsPermanent() bool {
	return e.Is5xx()
}
