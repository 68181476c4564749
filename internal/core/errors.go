package core

import "github.com/tagmetry/tagmetry/internal/model"

// ErrorKind and Error are re-exported from model so that leaf packages
// (scanner, ruleset) can construct the same typed error without importing
// this orchestrator package, which would create an import cycle.
type ErrorKind = model.ErrorKind

const (
	ErrInputNotFound          = model.ErrInputNotFound
	ErrImageFileMissing       = model.ErrImageFileMissing
	ErrUnsupportedImageFormat = model.ErrUnsupportedImageFormat
	ErrInvalidRuleset         = model.ErrInvalidRuleset
	ErrInvalidConfig          = model.ErrInvalidConfig
	ErrIOFailure              = model.ErrIOFailure
	ErrCancelled              = model.ErrCancelled
)

// Error is an alias for model.Error, kept here so existing call sites
// reading core.Error{...} continue to compile.
type Error = model.Error

// IsCancelled reports whether err is (or wraps) a Cancelled *Error.
func IsCancelled(err error) bool {
	return model.IsCancelled(err)
}
