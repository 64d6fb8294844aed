package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrLoadConfig         = errors.New("load config failed")
	ErrConflictingFilters = errors.New("only one SMARTS filter (exclude or select) may be used")
	ErrHelp               = errors.New("help requested")
)
