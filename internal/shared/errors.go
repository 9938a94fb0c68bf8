package shared

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Session errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoRole           = errors.New("no role selected")
	ErrNoProfile        = errors.New("no elder profile")
	ErrCorruptState     = errors.New("stored state could not be decoded")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrUpstream           = errors.New("upstream returned an error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrEmptyCompletion    = errors.New("empty completion")
	ErrUnparseable        = errors.New("response could not be parsed")
	ErrStaleGeneration    = errors.New("generation superseded by a newer request")

	// Persistence errors
	ErrDeviceNotFound = errors.New("device not found")
	ErrStateNotFound  = errors.New("state not found")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCannotProceed   = errors.New("current step is incomplete")
	ErrIndexOutOfRange = errors.New("index out of range")
)
