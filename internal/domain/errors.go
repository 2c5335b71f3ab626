package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnknownUlosType   = errors.New("unknown ulos type")
	ErrUnknownColor      = errors.New("unknown color code")
	ErrNoJobAvailable    = errors.New("no job available")
	ErrProviderFailure   = errors.New("provider failure")
	ErrMotifImageInvalid = errors.New("motif image invalid")
)
