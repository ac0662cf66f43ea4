package model

import "errors"

var (
	// ErrDelegate marks a failed, unreachable or timed-out text-generation call
	ErrDelegate = errors.New("delegate failure")
	// ErrParse marks extractor output that is not a preference object
	ErrParse = errors.New("preference parse error")
	// ErrSessionNotFound is returned by read-only session lookups
	ErrSessionNotFound = errors.New("session not found")
)
