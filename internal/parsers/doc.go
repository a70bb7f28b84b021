// Package parsers provides file parsers that turn raw files into
// ordered sequences of typed text elements, plus a registry that
// dispatches by file extension.
//
// Parsers implement the driven.Parser port. The registry selects an
// extension-specific parser when one is registered and falls back to
// plain text otherwise, so no file type is rejected outright.
package parsers
