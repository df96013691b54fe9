package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrMissingFields    = fmt.Errorf("missing required fields")
	ErrMissingIdentity  = fmt.Errorf("missing composition id")
	ErrInvalidAddress   = fmt.Errorf("invalid composition address")
	ErrNotFound         = fmt.Errorf("composition not found")
	ErrUnsupported      = fmt.Errorf("operation not supported by identity strategy")
	ErrStoreUnavailable = fmt.Errorf("store unavailable")
	ErrStartupFailure   = fmt.Errorf("store bootstrap failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
