package cove

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .cove.yaml is found.
	ErrConfigNotFound = errors.New("cove: no .cove.yaml found")

	// ErrUnknownCommand is returned when a command name is not in the catalog.
	ErrUnknownCommand = errors.New("cove: unknown command")

	// ErrUnknownParameter is returned when a typed parameter matches no
	// declared parameter of the command.
	ErrUnknownParameter = errors.New("cove: unknown parameter")

	// ErrAmbiguousParameter is returned when a parameter name or alias prefix
	// matches more than one declared parameter.
	ErrAmbiguousParameter = errors.New("cove: ambiguous parameter")

	// ErrUnterminatedString is returned by UnquoteWord when a quoted word has
	// no closing quote.
	ErrUnterminatedString = errors.New("cove: unterminated string")
)
