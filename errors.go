package goRelay

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the relay engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the relay engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrLoginRateLimited is an exported constant or variable used by the relay engine.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrSessionNotFound is an exported constant or variable used by the relay engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCreationFailed is an exported constant or variable used by the relay engine.
	ErrSessionCreationFailed = errors.New("session creation failed")
	// ErrSessionInvalidationFailed is an exported constant or variable used by the relay engine.
	ErrSessionInvalidationFailed = errors.New("session invalidation failed")
	// ErrTokenInvalid is an exported constant or variable used by the relay engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrIdentityMissing is an exported constant or variable used by the relay engine.
	ErrIdentityMissing = errors.New("identity missing")
	// ErrBindRejected is an exported constant or variable used by the relay engine.
	ErrBindRejected = errors.New("bind rejected")
	// ErrRegistryUnavailable is an exported constant or variable used by the relay engine.
	ErrRegistryUnavailable = errors.New("registry backend unavailable")
	// ErrDispatchFailed is an exported constant or variable used by the relay engine.
	ErrDispatchFailed = errors.New("dispatch failed")
	// ErrEngineNotReady is an exported constant or variable used by the relay engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
