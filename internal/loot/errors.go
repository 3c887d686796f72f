package loot

import "errors"

// Sentinel errors for the loot core.
var (
	ErrUnassigned        = errors.New("no item pool assigned")
	ErrFallbackNotFound  = errors.New("fallback encounter not found")
	ErrFallbackAmbiguous = errors.New("fallback encounter name is ambiguous")
	ErrFallbackCycle     = errors.New("fallback chain forms a cycle")
	ErrDropperBound      = errors.New("dropper bound to another encounter")
	ErrBracketHeld       = errors.New("shared definition already under substitution")
	ErrEventClaimed      = errors.New("engine call already substituted by another dropper")
	ErrUnknownTag        = errors.New("unknown tag")
)
