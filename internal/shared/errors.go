package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upstream video-platform errors
	ErrUpstream       = fmt.Errorf("upstream request failed")
	ErrProtocol       = fmt.Errorf("upstream protocol violation")
	ErrOwnerNotFound  = fmt.Errorf("channel owner not found")
	ErrOwnerAmbiguous = fmt.Errorf("channel owner ambiguous")

	// Document store errors
	ErrStore = fmt.Errorf("document store request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Service wiring errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
