package report

import "errors"

var (
	// ErrEmptySample is returned when there are no scores to summarize.
	ErrEmptySample = errors.New("empty score sample")
	// ErrRender wraps plotting and image encoding failures.
	ErrRender = errors.New("render report")
)
