package editorcfg

import "errors"

// Error variables for editorcfg operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrIndentWidthInvalid = errors.New("indent-width must be positive")
	ErrUnknownLanguage    = errors.New("unknown language")
	ErrUnknownCaseHandling = errors.New("unknown case handling")
)
