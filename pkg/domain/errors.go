package domain

import "errors"

// ErrTreeNotFound is returned when no persisted tree matches an industry.
var ErrTreeNotFound = errors.New("tree not found")

// ErrNodeNotFound is returned on point lookups that match nothing.
var ErrNodeNotFound = errors.New("node not found")

// ErrCorruptTree is returned when persisted state cannot be reassembled
// into a valid tree. Resume must surface this rather than reinitialize.
var ErrCorruptTree = errors.New("corrupt tree state")

// ErrStepNotFound is returned when a step id has no registry entry.
var ErrStepNotFound = errors.New("step not registered")
