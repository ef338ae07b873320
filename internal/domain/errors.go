package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrEngineFailure is returned when the conversation engine call fails
	ErrEngineFailure = errors.New("conversation engine request failed")

	// ErrEmptyReply is returned when the conversation engine answers with no text
	ErrEmptyReply = errors.New("conversation engine returned an empty reply")

	// ErrSpeechFailure is returned when the text-to-speech request fails
	ErrSpeechFailure = errors.New("speech synthesis request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCatalogInvalid is returned when the ski catalog document cannot be used
	ErrCatalogInvalid = errors.New("ski catalog is invalid")

	// ErrStoreUnavailable is returned when the session store cannot be reached
	ErrStoreUnavailable = errors.New("session store unavailable")
)
