package types

import "errors"

// Store errors.
var (
	ErrDecode          = errors.New("malformed note line")
	ErrIndexOutOfRange = errors.New("note index out of range")
	ErrInvalidIndex    = errors.New("invalid note index")
	ErrStaleIndex      = errors.New("note at index changed on disk")
)

// Settings and configuration errors.
var (
	ErrSettingsInvalid = errors.New("invalid settings")
	ErrConfigInvalid   = errors.New("invalid configuration")
)
