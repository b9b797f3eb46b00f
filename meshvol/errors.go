package meshvol

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned by pipeline stages (wrapped with stage
// context) when the configured Interrupter aborted an in-progress run.
var ErrInterrupted = errors.New("meshvol: conversion interrupted")

// InvalidInputError reports a polygon referencing a vertex index outside
// the point list, or a polygon with fewer than three valid vertices.
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("meshvol: invalid input: %s", e.Msg)
}

func interruptedAt(stage string) error {
	return fmt.Errorf("%w: during %s", ErrInterrupted, stage)
}
