package service

import "errors"

var (
	// ErrNoInput is returned when a file glob matches nothing.
	ErrNoInput = errors.New("no input files")
	// ErrEmptyPopulation is returned when no score row survived ingestion.
	ErrEmptyPopulation = errors.New("no valid scores")
)
