package core

import "errors"

var (
	// ErrNetwork is returned when the router or target host cannot be reached
	ErrNetwork = errors.New("network error")

	// ErrProtocol is returned when the router answers with an unexpected shape
	ErrProtocol = errors.New("unexpected router response")

	// ErrRouterRejected is returned when the router reports success=false
	ErrRouterRejected = errors.New("router rejected the request")

	// ErrWakeRejected is returned when the wake call itself reports success=false
	ErrWakeRejected = errors.New("router rejected the wake request")

	// ErrRegistrationRejected is returned when the router refuses to register the application
	ErrRegistrationRejected = errors.New("router rejected the registration")

	// ErrPolling is returned when the authorization status poll fails mid-flow
	ErrPolling = errors.New("authorization polling failed")

	// ErrAuthorizationDenied is returned when the human denies the request on the router
	ErrAuthorizationDenied = errors.New("authorization denied on the router")

	// ErrAuthorizationTimedOut is returned when no approval arrives within the budget
	ErrAuthorizationTimedOut = errors.New("authorization timed out")

	// ErrNotAuthorized is returned when no usable credential is configured
	ErrNotAuthorized = errors.New("router credential not configured")

	// ErrMachineNotRegistered is returned when the target IP has no registry entry
	ErrMachineNotRegistered = errors.New("machine not registered")
)
