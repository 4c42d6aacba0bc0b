package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errNameRequired   = errors.New("name is required")
	errNameInvalid    = errors.New("name must be 1-32 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errValueRequired  = errors.New("value is required")
	errCountInvalid   = errors.New("must be a non-negative whole number")
	errNotInteractive = errors.New("the wizard needs an interactive terminal")
)
