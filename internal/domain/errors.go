package domain

import "errors"

var (
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrDuplicateReview    = errors.New("review already submitted for this player in this match")
	ErrInvalidReview      = errors.New("invalid review")
	ErrUnsupportedVersion = errors.New("unsupported export version")
	ErrHostUnavailable    = errors.New("host runtime not detected")
	ErrLocalPlayerUnknown = errors.New("local player identity unknown")
)
