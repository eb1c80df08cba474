package domain

import "errors"

var (
	ErrUpstreamUnavailable = errors.New("inventory api unavailable")
	ErrEmptyInventory      = errors.New("inventory is empty")
	ErrMissingUSDRate      = errors.New("USD rate is missing")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrFetchInProgress     = errors.New("inventory fetch already in progress")
	ErrArtifactNotFound    = errors.New("export artifact not found")
)
