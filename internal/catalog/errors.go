package catalog

import "errors"

var (
	ErrUnknownHook   = errors.New("unknown session hook")
	ErrUnknownFilter = errors.New("unknown pawn filter")
	ErrBadDropper    = errors.New("dropper must set exactly one of pawn, behavior, custom, interactive")
)
