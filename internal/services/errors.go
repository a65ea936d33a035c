package services

import "errors"

// Run service errors
var (
	ErrRunNotFound = errors.New("run not found")
	ErrNoSources   = errors.New("no sources supplied")
	ErrRunExists   = errors.New("run already exists")
)
