package domain

import "errors"

var (
	// ErrResourceUnavailable is returned when the catalog resource cannot be fetched
	ErrResourceUnavailable = errors.New("catalog resource unavailable")

	// ErrMalformedRow is returned for a catalog row that does not parse
	ErrMalformedRow = errors.New("malformed catalog row")

	// ErrInvalidHexColor is returned when a color is not of the form #RRGGBB
	ErrInvalidHexColor = errors.New("invalid hex color")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoCategories is returned when a match is requested without any product category
	ErrNoCategories = errors.New("at least one product category must be selected")

	// ErrMatchInProgress is returned when a session already has a match running
	ErrMatchInProgress = errors.New("a match is already in progress")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
